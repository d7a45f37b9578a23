// Package session owns the signed-in lifecycle: sign-in verifies a provider
// ID token, the resulting session carries the bearer credential for upstream
// calls, and a change feed replaces the global mutable auth context of the
// original dashboard.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/agendahub/dashboard/internal/identity"
	"github.com/google/uuid"
)

var (
	ErrNotSignedIn = errors.New("session: not signed in")
	ErrExpired     = errors.New("session: expired")
)

type User struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	Bearer    string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ChangeType string

const (
	SignedIn  ChangeType = "signed_in"
	SignedOut ChangeType = "signed_out"
)

type Change struct {
	Type    ChangeType
	Session Session
}

// TokenVerifier is satisfied by identity.Verifier.
type TokenVerifier interface {
	Verify(token string) (*identity.Claims, error)
}

type Manager struct {
	verifier TokenVerifier
	ttl      time.Duration
	logger   *slog.Logger

	mu          sync.Mutex
	sessions    map[string]Session // keyed by bearer token
	watchers    map[int]chan Change
	nextWatcher int
}

func NewManager(verifier TokenVerifier, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		verifier: verifier,
		ttl:      ttl,
		logger:   logger,
		sessions: map[string]Session{},
		watchers: map[int]chan Change{},
	}
}

// SignInWithGoogle verifies the provider ID token and opens a session. The
// token itself becomes the bearer credential attached to every upstream call.
func (m *Manager) SignInWithGoogle(_ context.Context, idToken string) (Session, error) {
	claims, err := m.verifier.Verify(idToken)
	if err != nil {
		return Session{}, err
	}

	now := time.Now()
	expires := now.Add(m.ttl)
	if claims.Exp > 0 {
		if tokenExp := time.Unix(claims.Exp, 0); tokenExp.Before(expires) {
			expires = tokenExp
		}
	}

	sess := Session{
		ID: uuid.NewString(),
		User: User{
			Sub:   claims.Sub,
			Email: claims.Email,
			Name:  claims.Name,
		},
		Bearer:    idToken,
		CreatedAt: now,
		ExpiresAt: expires,
	}

	m.mu.Lock()
	m.sessions[idToken] = sess
	m.mu.Unlock()

	m.logger.Info("session opened", "session_id", sess.ID, "sub", sess.User.Sub)
	m.emit(Change{Type: SignedIn, Session: sess})
	return sess, nil
}

// GetSession returns the session previously opened for token. Expired
// sessions are removed and reported as a sign-out.
func (m *Manager) GetSession(_ context.Context, token string) (Session, error) {
	m.mu.Lock()
	sess, ok := m.sessions[token]
	if ok && time.Now().After(sess.ExpiresAt) {
		delete(m.sessions, token)
		m.mu.Unlock()
		m.logger.Info("session expired", "session_id", sess.ID)
		m.emit(Change{Type: SignedOut, Session: sess})
		return Session{}, ErrExpired
	}
	m.mu.Unlock()

	if !ok {
		return Session{}, ErrNotSignedIn
	}
	return sess, nil
}

// SignOut closes the session for token. It is idempotent; signing out an
// unknown token is a no-op.
func (m *Manager) SignOut(_ context.Context, token string) {
	m.mu.Lock()
	sess, ok := m.sessions[token]
	if ok {
		delete(m.sessions, token)
	}
	m.mu.Unlock()

	if ok {
		m.logger.Info("session closed", "session_id", sess.ID)
		m.emit(Change{Type: SignedOut, Session: sess})
	}
}

// Subscribe returns a change feed and its teardown func. The caller owns the
// subscription lifecycle; events are dropped rather than block when the
// subscriber falls behind.
func (m *Manager) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 16)

	m.mu.Lock()
	id := m.nextWatcher
	m.nextWatcher++
	m.watchers[id] = ch
	m.mu.Unlock()

	unsubscribe := func() {
		m.mu.Lock()
		if w, ok := m.watchers[id]; ok {
			delete(m.watchers, id)
			close(w)
		}
		m.mu.Unlock()
	}
	return ch, unsubscribe
}

func (m *Manager) emit(c Change) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.watchers {
		select {
		case w <- c:
		default:
		}
	}
}
