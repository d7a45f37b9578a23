// Package snapshot keeps the last successfully fetched appointment list per
// user and guards refreshes with a monotonically increasing sequence so a
// slow fetch can never overwrite a newer one.
package snapshot

import (
	"sync"
	"time"

	"github.com/agendahub/dashboard/internal/agenda"
)

type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	nextSeq    uint64
	appliedSeq uint64
	list       []agenda.Appointment
	fetchedAt  time.Time
	hasData    bool
}

func NewStore() *Store {
	return &Store{entries: map[string]*entry{}}
}

// Begin reserves the next refresh sequence number for user. Call it before
// issuing the upstream fetch.
func (s *Store) Begin(user string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(user)
	e.nextSeq++
	return e.nextSeq
}

// Complete records the result of the fetch started at seq. It reports false
// and discards the list when a newer fetch already completed.
func (s *Store) Complete(user string, seq uint64, list []agenda.Appointment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(user)
	if seq <= e.appliedSeq {
		return false
	}
	e.appliedSeq = seq
	e.list = list
	e.fetchedAt = time.Now()
	e.hasData = true
	return true
}

// Get returns the last applied snapshot for user, if any.
func (s *Store) Get(user string) ([]agenda.Appointment, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[user]
	if !ok || !e.hasData {
		return nil, time.Time{}, false
	}
	return e.list, e.fetchedAt, true
}

// Drop forgets everything cached for user (used on sign-out).
func (s *Store) Drop(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, user)
}

func (s *Store) entry(user string) *entry {
	e, ok := s.entries[user]
	if !ok {
		e = &entry{}
		s.entries[user] = e
	}
	return e
}
