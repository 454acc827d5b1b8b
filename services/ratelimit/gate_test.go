package ratelimit

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestGateOpensAfterCooldown(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	gate := NewGateWithClock(clock.Now)

	if gate.Limited() {
		t.Fatal("fresh gate should not be limited")
	}

	gate.TripQuota()
	if !gate.Limited() {
		t.Fatal("gate should be limited after TripQuota")
	}
	if got := gate.Remaining(); got != QuotaCooldown {
		t.Fatalf("expected remaining %v, got %v", QuotaCooldown, got)
	}

	clock.Advance(QuotaCooldown - time.Second)
	if !gate.Limited() {
		t.Fatal("gate should still be limited just before the window closes")
	}

	clock.Advance(2 * time.Second)
	if gate.Limited() {
		t.Fatal("gate should reopen after the cooldown passes")
	}
	if got := gate.Remaining(); got != 0 {
		t.Fatalf("expected zero remaining, got %v", got)
	}
}

func TestGateCooldownNeverShortens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	gate := NewGateWithClock(clock.Now)

	gate.Trip(5 * time.Minute)
	gate.Trip(10 * time.Second)

	if got := gate.Remaining(); got != 5*time.Minute {
		t.Fatalf("shorter trip must not shrink the window, remaining %v", got)
	}

	// A later-ending trip still extends it.
	gate.Trip(10 * time.Minute)
	if got := gate.Remaining(); got != 10*time.Minute {
		t.Fatalf("expected window extended to 10m, remaining %v", got)
	}
}
