package notify

import (
	"testing"
	"time"
)

func TestDrainKeepsPushOrder(t *testing.T) {
	c := NewCenter(time.Minute)
	c.Push("s1", LevelError, "falha ao agendar")
	c.Push("s1", LevelSuccess, "agendamento confirmado")

	got := c.Drain("s1", time.Now())
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].Text != "falha ao agendar" || got[1].Text != "agendamento confirmado" {
		t.Fatalf("order lost: %+v", got)
	}
	if got[0].Level != LevelError || got[1].Level != LevelSuccess {
		t.Fatalf("levels lost: %+v", got)
	}

	if again := c.Drain("s1", time.Now()); len(again) != 0 {
		t.Fatalf("drain should empty the queue, got %d", len(again))
	}
}

func TestDrainDropsExpired(t *testing.T) {
	c := NewCenter(time.Minute)
	c.Push("s1", LevelInfo, "old news")
	got := c.Drain("s1", time.Now().Add(2*time.Minute))
	if len(got) != 0 {
		t.Fatalf("expected expired notifications to be dropped, got %+v", got)
	}
}

func TestQueuesAreIsolatedPerSession(t *testing.T) {
	c := NewCenter(time.Minute)
	c.Push("s1", LevelInfo, "for s1")
	c.Push("s2", LevelInfo, "for s2")

	got := c.Drain("s1", time.Now())
	if len(got) != 1 || got[0].Text != "for s1" {
		t.Fatalf("unexpected drain for s1: %+v", got)
	}
	got2 := c.Drain("s2", time.Now())
	if len(got2) != 1 || got2[0].Text != "for s2" {
		t.Fatalf("unexpected drain for s2: %+v", got2)
	}
}

func TestDrop(t *testing.T) {
	c := NewCenter(time.Minute)
	c.Push("s1", LevelInfo, "gone")
	c.Drop("s1")
	if got := c.Drain("s1", time.Now()); len(got) != 0 {
		t.Fatalf("expected empty queue after Drop, got %+v", got)
	}
}
