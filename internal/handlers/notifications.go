package handlers

import (
	"net/http"

	"github.com/agendahub/dashboard/internal/httpx"
	"github.com/agendahub/dashboard/internal/notify"
)

func (d *Dashboard) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess, ok := d.requireSession(w, r)
	if !ok {
		return
	}
	pending := d.notes.Drain(sess.ID, d.now())
	if pending == nil {
		pending = []notify.Notification{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"notifications": pending})
}
