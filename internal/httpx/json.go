package httpx

import (
	"encoding/json"
	"net/http"
)

// errorBody mirrors the remote appointment API error contract so the view
// layer handles both shapes the same way.
type errorBody struct {
	Msg string `json:"msg"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Msg: msg})
}
