package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agendahub/dashboard/internal/agenda"
	"github.com/agendahub/dashboard/internal/events"
	"github.com/agendahub/dashboard/internal/httpx"
	"github.com/agendahub/dashboard/internal/notify"
	"github.com/agendahub/dashboard/internal/session"
	"github.com/agendahub/dashboard/internal/upstream"
)

type listResponse struct {
	Agendamentos []agenda.Appointment `json:"agendamentos"`
	Stale        bool                 `json:"stale,omitempty"`
}

func (d *Dashboard) handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		d.listAppointments(w, r)
	case http.MethodPost:
		d.createAppointment(w, r)
	default:
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (d *Dashboard) listAppointments(w http.ResponseWriter, r *http.Request) {
	sess, ok := d.requireSession(w, r)
	if !ok {
		return
	}
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	list, stale, ok := d.refresh(w, r, sess)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{
		Agendamentos: agenda.Apply(list, filter, d.now()),
		Stale:        stale,
	})
}

// refresh fetches the current snapshot from the remote API, guarded by the
// per-user sequence so a slow response can never clobber a newer one. On a
// non-auth failure it falls back to the last good snapshot when one exists.
func (d *Dashboard) refresh(w http.ResponseWriter, r *http.Request, sess session.Session) ([]agenda.Appointment, bool, bool) {
	user := sess.User.Sub
	seq := d.snapshots.Begin(user)

	list, err := d.api.List(r.Context(), sess.Bearer)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			d.forceSignOut(r.Context(), w, sess)
			return nil, false, false
		}
		d.logger.Error("appointment list fetch failed", "err", err, "session_id", sess.ID)
		d.notes.Push(sess.ID, notify.LevelError, "não foi possível atualizar os agendamentos")
		if cached, _, ok := d.snapshots.Get(user); ok {
			return cached, true, true
		}
		httpx.Error(w, http.StatusBadGateway, "não foi possível carregar os agendamentos")
		return nil, false, false
	}

	if !d.snapshots.Complete(user, seq, list) {
		// A newer refresh already landed; serve that one.
		if newer, _, ok := d.snapshots.Get(user); ok {
			return newer, false, true
		}
	}
	return list, false, true
}

func (d *Dashboard) createAppointment(w http.ResponseWriter, r *http.Request) {
	sess, ok := d.requireSession(w, r)
	if !ok {
		return
	}

	var req upstream.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Nome = strings.TrimSpace(req.Nome)
	req.Email = strings.TrimSpace(req.Email)
	req.Telefone = strings.TrimSpace(req.Telefone)
	req.Data = strings.TrimSpace(req.Data)
	req.Horario = strings.TrimSpace(req.Horario)

	// Validation happens before any request goes out; email is optional.
	if req.Nome == "" || req.Telefone == "" || req.Data == "" || req.Horario == "" {
		httpx.Error(w, http.StatusBadRequest, "nome, telefone, data e horário são obrigatórios")
		return
	}

	key := sess.ID + "|create"
	if !d.guard.Begin(key) {
		httpx.Error(w, http.StatusConflict, "já existe um agendamento em andamento")
		return
	}
	defer d.guard.End(key)

	if err := d.api.Create(r.Context(), sess.Bearer, req); err != nil {
		d.surfaceUpstreamError(w, r, sess, err, "não foi possível criar o agendamento")
		return
	}

	d.notes.Push(sess.ID, notify.LevelSuccess, "agendamento solicitado")
	d.activity.Publish(r.Context(), events.Activity{
		Action:     events.ActionCreated,
		ActorSub:   sess.User.Sub,
		ActorEmail: sess.User.Email,
	})
	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"msg": "agendamento criado"})
}

type transitionRequest struct {
	ID string `json:"id"`
}

func (d *Dashboard) handleConfirm(w http.ResponseWriter, r *http.Request) {
	d.transition(w, r, "confirm")
}

func (d *Dashboard) handleCancel(w http.ResponseWriter, r *http.Request) {
	d.transition(w, r, "cancel")
}

func (d *Dashboard) transition(w http.ResponseWriter, r *http.Request, action string) {
	if r.Method != http.MethodPost {
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess, ok := d.requireSession(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		httpx.Error(w, http.StatusBadRequest, "id required")
		return
	}

	key := sess.ID + "|" + action + "|" + req.ID
	if !d.guard.Begin(key) {
		httpx.Error(w, http.StatusConflict, "operação já em andamento para este agendamento")
		return
	}
	defer d.guard.End(key)

	var err error
	if action == "confirm" {
		err = d.api.Confirm(r.Context(), sess.Bearer, sess.User.Email, req.ID)
	} else {
		err = d.api.Cancel(r.Context(), sess.Bearer, sess.User.Email, req.ID)
	}
	if err != nil {
		d.surfaceUpstreamError(w, r, sess, err, "não foi possível atualizar o agendamento")
		return
	}

	if action == "confirm" {
		d.notes.Push(sess.ID, notify.LevelSuccess, "agendamento confirmado")
		d.activity.Publish(r.Context(), events.Activity{
			Action:        events.ActionConfirmed,
			AppointmentID: req.ID,
			ActorSub:      sess.User.Sub,
			ActorEmail:    sess.User.Email,
		})
	} else {
		d.notes.Push(sess.ID, notify.LevelSuccess, "agendamento cancelado")
		d.activity.Publish(r.Context(), events.Activity{
			Action:        events.ActionCancelled,
			AppointmentID: req.ID,
			ActorSub:      sess.User.Sub,
			ActorEmail:    sess.User.Email,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"msg": "ok"})
}

// surfaceUpstreamError maps upstream failures onto the error taxonomy: 401
// forces a sign-out, a server {"msg"} passes through with its status, and
// anything else (no response at all) gets the generic fallback. No retries.
func (d *Dashboard) surfaceUpstreamError(w http.ResponseWriter, r *http.Request, sess session.Session, err error, fallback string) {
	if errors.Is(err, upstream.ErrUnauthorized) {
		d.forceSignOut(r.Context(), w, sess)
		return
	}
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		d.notes.Push(sess.ID, notify.LevelError, apiErr.Msg)
		httpx.Error(w, apiErr.StatusCode, apiErr.Msg)
		return
	}
	d.logger.Error("upstream request failed", "err", err, "session_id", sess.ID)
	d.notes.Push(sess.ID, notify.LevelError, fallback)
	httpx.Error(w, http.StatusBadGateway, fallback)
}

func (d *Dashboard) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpx.Error(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sess, ok := d.requireSession(w, r)
	if !ok {
		return
	}
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	list, _, ok := d.refresh(w, r, sess)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="agendamentos.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "nome", "email", "telefone", "data", "horario", "status"})
	for _, a := range agenda.Apply(list, filter, d.now()) {
		_ = cw.Write([]string{a.ID, a.Nome, a.Email, a.Telefone, a.Data, a.Horario, string(a.Status)})
	}
	cw.Flush()
}

func parseFilter(q url.Values) (agenda.Filter, error) {
	f := agenda.Filter{
		Search: q.Get("search"),
		Day:    agenda.DayAny,
	}

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		st := agenda.Status(raw)
		if !st.Valid() {
			return agenda.Filter{}, errors.New("status inválido")
		}
		f.Status = st
	}

	if raw := strings.TrimSpace(q.Get("day")); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			return agenda.Filter{}, errors.New("day deve ser um inteiro")
		}
		f.Day = day
	}
	return f, nil
}
