// agenda-api-sim is a local stand-in for the remote appointment API. It speaks
// the same wire contract the dashboard service consumes (GET /agendamentos,
// POST /agendar, POST /agendamentos/{email}/{confirmar|cancelar}/{id}) over an
// in-memory list, so the service can be exercised without the real backend.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

type appointment struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Email    string `json:"email,omitempty"`
	Telefone string `json:"telefone"`
	Data     string `json:"data"`
	Horario  string `json:"horario"`
	Status   string `json:"status"`
}

type store struct {
	mu     sync.Mutex
	nextID int
	items  []appointment
}

func main() {
	var (
		port      = flag.String("port", getenv("PORT", "3001"), "listen port")
		seed      = flag.Int("seed", 5, "number of seeded appointments")
		reject401 = flag.Bool("reject-auth", false, "answer 401 to every request (forced sign-out testing)")
		latency   = flag.Duration("latency", 0, "artificial response latency")
	)
	flag.Parse()

	s := &store{nextID: 1}
	for i := 0; i < *seed; i++ {
		s.add(appointment{
			Nome:     fmt.Sprintf("Cliente %d", i+1),
			Email:    fmt.Sprintf("cliente%d@example.com", i+1),
			Telefone: fmt.Sprintf("1199999%04d", i),
			Data:     time.Now().AddDate(0, 0, i-2).Format("2006-01-02"),
			Horario:  fmt.Sprintf("%02d:00", 9+i),
			Status:   "pendente",
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/agendamentos", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMsg(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"agendamentos": s.list()})
	})
	mux.HandleFunc("/agendar", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeMsg(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var a appointment
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			writeMsg(w, http.StatusBadRequest, "json inválido")
			return
		}
		if a.Nome == "" || a.Telefone == "" || a.Data == "" || a.Horario == "" {
			writeMsg(w, http.StatusBadRequest, "nome, telefone, data e horário são obrigatórios")
			return
		}
		a.Status = "pendente"
		s.add(a)
		writeJSON(w, http.StatusCreated, map[string]string{"msg": "agendamento criado"})
	})
	// POST /agendamentos/{email}/confirmar/{id} and .../cancelar/{id}
	mux.HandleFunc("/agendamentos/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeMsg(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 4 {
			writeMsg(w, http.StatusNotFound, "rota não encontrada")
			return
		}
		var status string
		switch parts[2] {
		case "confirmar":
			status = "confirmado"
		case "cancelar":
			status = "cancelado"
		default:
			writeMsg(w, http.StatusNotFound, "rota não encontrada")
			return
		}
		if !s.setStatus(parts[3], status) {
			writeMsg(w, http.StatusNotFound, "agendamento não encontrado")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"msg": "ok"})
	})

	handler := http.Handler(mux)
	if *reject401 || *latency > 0 {
		rej, lat := *reject401, *latency
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if lat > 0 {
				time.Sleep(lat)
			}
			if rej {
				writeMsg(w, http.StatusUnauthorized, "token inválido")
				return
			}
			mux.ServeHTTP(w, r)
		})
	}

	addr := ":" + *port
	fmt.Printf("agenda-api-sim listening on %s (seeded=%d reject-auth=%v)\n", addr, *seed, *reject401)
	if err := http.ListenAndServe(addr, handler); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (s *store) add(a appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = strconv.Itoa(s.nextID)
	s.nextID++
	s.items = append(s.items, a)
}

func (s *store) list() []appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]appointment, len(s.items))
	copy(out, s.items)
	return out
}

func (s *store) setStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
