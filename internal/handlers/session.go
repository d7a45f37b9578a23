package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agendahub/dashboard/internal/httpx"
)

type signInRequest struct {
	IDToken string `json:"id_token"`
}

func (d *Dashboard) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.IDToken = strings.TrimSpace(req.IDToken)
	if req.IDToken == "" {
		httpx.Error(w, http.StatusBadRequest, "id_token required")
		return
	}

	sess, err := d.sessions.SignInWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "token rejeitado pelo provedor de identidade")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"session": sess})
}

func (d *Dashboard) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sess, ok := d.requireSession(w, r)
		if !ok {
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"session": sess})
	case http.MethodDelete:
		sess, ok := d.requireSession(w, r)
		if !ok {
			return
		}
		d.sessions.SignOut(r.Context(), sess.Bearer)
		w.WriteHeader(http.StatusNoContent)
	default:
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
