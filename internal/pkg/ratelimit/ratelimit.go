// Package ratelimit implements fixed-window request counting over a pluggable counter store.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidLimit = errors.New("rate limit requires a positive limit and window")

// Counter increments the hit count for key in the window that is current at call time.
// The first hit opens the window; resetAt is when it closes.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// RetryAfter is the time until the window resets, never negative.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if wait := d.ResetAt.Sub(now); wait > 0 {
		return wait
	}
	return 0
}

type Limiter struct {
	counter Counter
	limit   int64
	window  time.Duration
}

func NewLimiter(counter Counter, limit int64, window time.Duration) (*Limiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, ErrInvalidLimit
	}
	return &Limiter{counter: counter, limit: limit, window: window}, nil
}

func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, resetAt, err := l.counter.Incr(ctx, key, l.window)
	if err != nil {
		return Decision{}, err
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
