package terms

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ok, err := s.Accepted(ctx, "user-1")
	if err != nil || ok {
		t.Fatalf("fresh user should not have accepted (ok=%v err=%v)", ok, err)
	}
	if err := s.SetAccepted(ctx, "user-1", true); err != nil {
		t.Fatalf("SetAccepted: %v", err)
	}
	ok, _ = s.Accepted(ctx, "user-1")
	if !ok {
		t.Fatal("expected accepted=true after set")
	}
	if err := s.SetAccepted(ctx, "user-1", false); err != nil {
		t.Fatalf("unset: %v", err)
	}
	ok, _ = s.Accepted(ctx, "user-1")
	if ok {
		t.Fatal("expected accepted=false after unset")
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewRedisStore(rdb, "terms-test")
	ctx := context.Background()

	ok, err := s.Accepted(ctx, "user-1")
	if err != nil || ok {
		t.Fatalf("fresh user should not have accepted (ok=%v err=%v)", ok, err)
	}
	if err := s.SetAccepted(ctx, "user-1", true); err != nil {
		t.Fatalf("SetAccepted: %v", err)
	}
	ok, err = s.Accepted(ctx, "user-1")
	if err != nil || !ok {
		t.Fatalf("expected accepted=true (ok=%v err=%v)", ok, err)
	}
	if err := s.SetAccepted(ctx, "user-1", false); err != nil {
		t.Fatalf("unset: %v", err)
	}
	ok, _ = s.Accepted(ctx, "user-1")
	if ok {
		t.Fatal("expected accepted=false after unset")
	}
}
