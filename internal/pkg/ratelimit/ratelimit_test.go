package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterAllow(t *testing.T) {
	ctx := context.Background()
	counter := NewMemoryCounter()
	base := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	now := base
	counter.now = func() time.Time { return now }

	limiter, err := NewLimiter(counter, 2, time.Minute)
	require.NoError(t, err)

	d, err := limiter.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(1), d.Remaining)

	d, _ = limiter.Allow(ctx, "user-1")
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(0), d.Remaining)

	d, _ = limiter.Allow(ctx, "user-1")
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(0), d.Remaining)
	assert.Equal(t, time.Minute, d.RetryAfter(now))

	// Keys are independent.
	d, _ = limiter.Allow(ctx, "user-2")
	assert.True(t, d.Allowed)

	// A new window opens once the old one has closed.
	now = base.Add(time.Minute)
	d, _ = limiter.Allow(ctx, "user-1")
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(1), d.Remaining)
}

func TestNewLimiterRejectsInvalidConfig(t *testing.T) {
	_, err := NewLimiter(NewMemoryCounter(), 0, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = NewLimiter(NewMemoryCounter(), 5, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestMemoryCounterPrune(t *testing.T) {
	ctx := context.Background()
	counter := NewMemoryCounter()
	base := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	now := base
	counter.now = func() time.Time { return now }

	_, _, _ = counter.Incr(ctx, "a", time.Minute)
	_, _, _ = counter.Incr(ctx, "b", time.Hour)
	require.Equal(t, 2, counter.Len())

	now = base.Add(2 * time.Minute)
	assert.Equal(t, 1, counter.Prune(ctx))
	assert.Equal(t, 1, counter.Len())
}

func TestMemoryCounterConcurrent(t *testing.T) {
	ctx := context.Background()
	counter := NewMemoryCounter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = counter.Incr(ctx, "shared", time.Minute)
		}()
	}
	wg.Wait()

	count, _, err := counter.Incr(ctx, "shared", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(51), count)
}

func TestRedisCounterKey(t *testing.T) {
	r := NewRedisCounter(nil, "")
	assert.Equal(t, "presence:ratelimit:user-1", r.key("ratelimit", "user-1"))
}
