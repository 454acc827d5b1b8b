package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecuteFastFailsWhileLimited(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	gate := NewGateWithClock(clock.Now)
	gate.TripQuota()

	policy := NewPolicyWith(gate, 3, time.Millisecond)

	calls := 0
	_, err := Execute(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		return "", nil
	})
	if !errors.Is(err, ErrCoolingDown) {
		t.Fatalf("expected ErrCoolingDown, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("fn must not run while the gate is closed, ran %d times", calls)
	}
}

func TestExecuteQuotaTripsGateAndStops(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	gate := NewGateWithClock(clock.Now)
	policy := NewPolicyWith(gate, 3, time.Millisecond)

	calls := 0
	_, err := Execute(context.Background(), policy, func(ctx context.Context) (int, error) {
		calls++
		return 0, ErrQuota
	})
	if !errors.Is(err, ErrQuota) {
		t.Fatalf("expected ErrQuota, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("quota errors must not retry, got %d calls", calls)
	}
	if !gate.Limited() {
		t.Fatal("quota error should trip the gate")
	}
	if got := gate.Remaining(); got != QuotaCooldown {
		t.Fatalf("expected full cooldown, got %v", got)
	}
}

func TestExecuteRetriesTransientErrors(t *testing.T) {
	gate := NewGate()
	policy := NewPolicyWith(gate, 3, time.Millisecond)

	calls := 0
	got, err := Execute(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("upstream hiccup")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected result %q", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestExecuteReturnsLastErrorWhenExhausted(t *testing.T) {
	gate := NewGate()
	policy := NewPolicyWith(gate, 2, time.Millisecond)

	last := errors.New("still broken")
	calls := 0
	_, err := Execute(context.Background(), policy, func(ctx context.Context) (int, error) {
		calls++
		return 0, last
	})
	if !errors.Is(err, last) {
		t.Fatalf("expected last attempt error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
	if gate.Limited() {
		t.Fatal("transient failures must not trip the gate")
	}
}
