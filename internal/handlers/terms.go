package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agendahub/dashboard/internal/httpx"
)

type termsBody struct {
	Accepted bool `json:"accepted"`
}

func (d *Dashboard) handleTerms(w http.ResponseWriter, r *http.Request) {
	sess, ok := d.requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		accepted, err := d.terms.Accepted(r.Context(), sess.User.Sub)
		if err != nil {
			d.logger.Error("terms lookup failed", "err", err, "sub", sess.User.Sub)
			httpx.Error(w, http.StatusInternalServerError, "não foi possível consultar os termos")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, termsBody{Accepted: accepted})
	case http.MethodPut:
		var body termsBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := d.terms.SetAccepted(r.Context(), sess.User.Sub, body.Accepted); err != nil {
			d.logger.Error("terms update failed", "err", err, "sub", sess.User.Sub)
			httpx.Error(w, http.StatusInternalServerError, "não foi possível gravar os termos")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, body)
	default:
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
