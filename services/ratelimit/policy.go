package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
)

var (
	// ErrQuota means an upstream answered 429. The gate trips and the call
	// must not be retried until the cooldown passes.
	ErrQuota = errors.New("upstream quota exhausted")

	// ErrCoolingDown means the call was refused locally because the gate is
	// closed. No request was made.
	ErrCoolingDown = errors.New("rate limit cooldown active")
)

const (
	defaultAttempts  = 3
	defaultBaseDelay = time.Second
)

// Policy runs outbound calls with gate awareness and linear backoff. Attempt
// n sleeps n*base before retrying; a quota error trips the gate and stops the
// run immediately.
type Policy struct {
	gate      *Gate
	attempts  uint
	baseDelay time.Duration
}

// NewPolicy creates a policy with 3 attempts and a 1s backoff step.
func NewPolicy(gate *Gate) *Policy {
	return &Policy{gate: gate, attempts: defaultAttempts, baseDelay: defaultBaseDelay}
}

// NewPolicyWith creates a policy with explicit attempt count and backoff step,
// mainly so tests can drop the delay to zero.
func NewPolicyWith(gate *Gate, attempts uint, baseDelay time.Duration) *Policy {
	if attempts == 0 {
		attempts = defaultAttempts
	}
	return &Policy{gate: gate, attempts: attempts, baseDelay: baseDelay}
}

// Gate exposes the underlying gate so callers can surface Retry-After hints.
func (p *Policy) Gate() *Gate { return p.gate }

// Do runs fn under the policy.
func (p *Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	_, err := Execute(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Execute runs fn under the policy and returns its result.
//
// Each attempt first consults the gate: a closed gate fails fast with
// ErrCoolingDown without calling fn. ErrQuota from fn trips the gate and is
// returned without further attempts. Any other error retries with linear
// backoff until the attempts are spent, and the last error is returned.
func Execute[T any](ctx context.Context, p *Policy, fn func(context.Context) (T, error)) (T, error) {
	return retry.DoWithData(
		func() (T, error) {
			var zero T
			if p.gate.Limited() {
				return zero, ErrCoolingDown
			}
			out, err := fn(ctx)
			if errors.Is(err, ErrQuota) {
				p.gate.TripQuota()
				return zero, err
			}
			return out, err
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, ErrQuota) && !errors.Is(err, ErrCoolingDown)
		}),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n+1) * p.baseDelay
		}),
	)
}
