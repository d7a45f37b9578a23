// Package terms stores the per-user "terms accepted" flag, the one piece of
// state the original dashboard kept in browser-local storage. Redis backs it
// in production; the in-memory store serves tests and single-node setups.
package terms

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	Accepted(ctx context.Context, user string) (bool, error)
	SetAccepted(ctx context.Context, user string, accepted bool) error
}

type MemoryStore struct {
	mu       sync.Mutex
	accepted map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accepted: map[string]bool{}}
}

func (s *MemoryStore) Accepted(_ context.Context, user string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted[user], nil
}

func (s *MemoryStore) SetAccepted(_ context.Context, user string, accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if accepted {
		s.accepted[user] = true
	} else {
		delete(s.accepted, user)
	}
	return nil
}

type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "terms"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(user string) string {
	return s.prefix + ":" + user
}

func (s *RedisStore) Accepted(ctx context.Context, user string) (bool, error) {
	v, err := s.rdb.Get(ctx, s.key(user)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

func (s *RedisStore) SetAccepted(ctx context.Context, user string, accepted bool) error {
	if !accepted {
		return s.rdb.Del(ctx, s.key(user)).Err()
	}
	return s.rdb.Set(ctx, s.key(user), "1", 0).Err()
}
