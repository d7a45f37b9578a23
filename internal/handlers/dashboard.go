// Package handlers exposes the dashboard HTTP surface: session lifecycle,
// the filtered appointment listing, create/confirm/cancel round trips, the
// notification feed, and the terms flag.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agendahub/dashboard/internal/agenda"
	"github.com/agendahub/dashboard/internal/events"
	"github.com/agendahub/dashboard/internal/httpx"
	"github.com/agendahub/dashboard/internal/inflight"
	"github.com/agendahub/dashboard/internal/notify"
	"github.com/agendahub/dashboard/internal/session"
	"github.com/agendahub/dashboard/internal/snapshot"
	"github.com/agendahub/dashboard/internal/terms"
	"github.com/agendahub/dashboard/internal/upstream"
)

// Upstream is the slice of the remote appointment API the dashboard uses.
// *upstream.Client satisfies it.
type Upstream interface {
	List(ctx context.Context, bearer string) ([]agenda.Appointment, error)
	Create(ctx context.Context, bearer string, r upstream.CreateRequest) error
	Confirm(ctx context.Context, bearer, email, id string) error
	Cancel(ctx context.Context, bearer, email, id string) error
}

// ActivityPublisher is satisfied by *events.Publisher.
type ActivityPublisher interface {
	Publish(ctx context.Context, a events.Activity)
}

type Dashboard struct {
	sessions  *session.Manager
	api       Upstream
	snapshots *snapshot.Store
	notes     *notify.Center
	guard     *inflight.Guard
	terms     terms.Store
	activity  ActivityPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewDashboard(
	sessions *session.Manager,
	api Upstream,
	snapshots *snapshot.Store,
	notes *notify.Center,
	termsStore terms.Store,
	activity ActivityPublisher,
	logger *slog.Logger,
) *Dashboard {
	return &Dashboard{
		sessions:  sessions,
		api:       api,
		snapshots: snapshots,
		notes:     notes,
		guard:     inflight.NewGuard(),
		terms:     termsStore,
		activity:  activity,
		logger:    logger,
		now:       time.Now,
	}
}

func (d *Dashboard) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/session/google", d.handleSignIn)
	mux.HandleFunc("/api/v1/session", d.handleSession)
	mux.HandleFunc("/api/v1/agendamentos", d.handleAppointments)
	mux.HandleFunc("/api/v1/agendamentos/confirm", d.handleConfirm)
	mux.HandleFunc("/api/v1/agendamentos/cancel", d.handleCancel)
	mux.HandleFunc("/api/v1/agendamentos/export", d.handleExport)
	mux.HandleFunc("/api/v1/notifications", d.handleNotifications)
	mux.HandleFunc("/api/v1/terms", d.handleTerms)
}

// Run owns the single session-change subscription: per-user caches are torn
// down when a session ends, however it ended. Blocks until ctx is done.
func (d *Dashboard) Run(ctx context.Context) {
	changes, unsubscribe := d.sessions.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if c.Type == session.SignedOut {
				d.snapshots.Drop(c.Session.User.Sub)
				d.notes.Drop(c.Session.ID)
			}
		}
	}
}

func (d *Dashboard) requireSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	token := bearerToken(r)
	if token == "" {
		httpx.Error(w, http.StatusUnauthorized, "missing or invalid Authorization header")
		return session.Session{}, false
	}
	sess, err := d.sessions.GetSession(r.Context(), token)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "not signed in")
		return session.Session{}, false
	}
	return sess, true
}

// forceSignOut handles an upstream 401: one sign-out, one error surface to
// the caller, never a retry.
func (d *Dashboard) forceSignOut(ctx context.Context, w http.ResponseWriter, sess session.Session) {
	d.logger.Warn("upstream rejected bearer, forcing sign-out", "session_id", sess.ID)
	d.sessions.SignOut(ctx, sess.Bearer)
	httpx.Error(w, http.StatusUnauthorized, "sessão expirada, entre novamente")
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
