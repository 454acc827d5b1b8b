package ratelimit

import (
	"sync"
	"time"
)

// QuotaCooldown is how long every outbound client backs off after an
// upstream answers 429.
const QuotaCooldown = 60 * time.Second

// Gate is the shared cooldown window consulted by every client that talks to
// an external API. One instance is wired through the whole process so a quota
// hit on one upstream pauses all of them.
type Gate struct {
	mu    sync.Mutex
	now   func() time.Time
	until time.Time
}

// NewGate creates a gate on the wall clock.
func NewGate() *Gate {
	return NewGateWithClock(time.Now)
}

// NewGateWithClock creates a gate with an injected clock for tests.
func NewGateWithClock(now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{now: now}
}

// Limited reports whether the cooldown window is still open.
func (g *Gate) Limited() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Before(g.until)
}

// Remaining returns how long until the cooldown expires, zero when open.
func (g *Gate) Remaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if d := g.until.Sub(g.now()); d > 0 {
		return d
	}
	return 0
}

// TripQuota opens the standard quota cooldown window.
func (g *Gate) TripQuota() {
	g.Trip(QuotaCooldown)
}

// Trip extends the cooldown to now+d. A cooldown never shortens: if a window
// ending later is already in effect, the call is a no-op.
func (g *Gate) Trip(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if candidate := g.now().Add(d); candidate.After(g.until) {
		g.until = candidate
	}
}
