package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agendahub/dashboard/internal/agenda"
)

func TestListSendsBearerAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/agendamentos" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Fatalf("missing bearer, got %q", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"agendamentos": []map[string]any{
				{"id": "7", "nome": "Ana", "telefone": "11999990000", "data": "2025-01-10", "horario": "09:00", "status": "pendente"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	got, err := c.List(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].Nome != "Ana" || got[0].Status != agenda.StatusPending {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestListUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.List(context.Background(), "expired"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateSurfacesServerMsg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agendar" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Nome != "Ana" || body.Horario != "09:00" {
			t.Fatalf("unexpected body: %+v", body)
		}
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "horario indisponivel"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	err := c.Create(context.Background(), "tok", CreateRequest{
		Nome: "Ana", Telefone: "11999990000", Data: "2025-01-10", Horario: "09:00",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Msg != "horario indisponivel" || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestCreateGenericFallbackWhenNoMsg(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	err := c.Create(context.Background(), "tok", CreateRequest{Nome: "Ana"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Msg == "" {
		t.Fatal("expected a generic fallback message")
	}
}

func TestConfirmAndCancelPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		paths = append(paths, r.URL.EscapedPath())
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if err := c.Confirm(context.Background(), "tok", "ana@example.com", "42"); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if err := c.Cancel(context.Background(), "tok", "ana@example.com", "42"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if paths[0] != "/agendamentos/ana@example.com/confirmar/42" &&
		paths[0] != "/agendamentos/ana%40example.com/confirmar/42" {
		t.Fatalf("unexpected confirm path: %s", paths[0])
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(paths))
	}
}
