// Package inflight rejects duplicate submissions. The remote API has no
// idempotency key, so the dashboard is the only guard against double-submit
// while a create/confirm/cancel round trip is pending.
package inflight

import "sync"

type Guard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{pending: map[string]struct{}{}}
}

// Begin reserves key. It reports false when an identical operation is already
// in flight; callers must then reject the request instead of submitting.
func (g *Guard) Begin(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[key]; busy {
		return false
	}
	g.pending[key] = struct{}{}
	return true
}

// End releases key once the round trip finished, whatever the outcome.
func (g *Guard) End(key string) {
	g.mu.Lock()
	delete(g.pending, key)
	g.mu.Unlock()
}
