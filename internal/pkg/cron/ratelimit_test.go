package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneWindows(t *testing.T) {
	ctx := context.Background()
	counter := ratelimit.NewMemoryCounter()

	_, _, err := counter.Incr(ctx, "short", 5*time.Millisecond)
	require.NoError(t, err)
	_, _, err = counter.Incr(ctx, "long", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 2, counter.Len())

	time.Sleep(20 * time.Millisecond)

	jobs := NewRateLimitJobs(counter)
	require.NoError(t, jobs.PruneWindows(ctx))
	assert.Equal(t, 1, counter.Len())

	s := NewScheduler(0)
	jobs.RegisterJobs(s, time.Minute)
	assert.Equal(t, []string{"prune_rate_limit_windows"}, s.Jobs())
}
