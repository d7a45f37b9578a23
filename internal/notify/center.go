// Package notify is a declarative notification queue: an ordered sequence of
// pending messages per session, each with an expiry. It replaces the ad-hoc
// DOM toast of the original dashboard and is independent of any renderer.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Center struct {
	ttl    time.Duration
	mu     sync.Mutex
	queues map[string][]Notification
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Center{ttl: ttl, queues: map[string][]Notification{}}
}

func (c *Center) Push(sessionID string, level Level, text string) {
	now := time.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.mu.Lock()
	c.queues[sessionID] = append(c.queues[sessionID], n)
	c.mu.Unlock()
}

// Drain returns the pending notifications for sessionID in push order and
// empties the queue. Messages that expired before now are silently dropped.
func (c *Center) Drain(sessionID string, now time.Time) []Notification {
	c.mu.Lock()
	queue := c.queues[sessionID]
	delete(c.queues, sessionID)
	c.mu.Unlock()

	pending := make([]Notification, 0, len(queue))
	for _, n := range queue {
		if now.After(n.ExpiresAt) {
			continue
		}
		pending = append(pending, n)
	}
	return pending
}

// Drop discards everything queued for sessionID (used on sign-out).
func (c *Center) Drop(sessionID string) {
	c.mu.Lock()
	delete(c.queues, sessionID)
	c.mu.Unlock()
}
