package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/ratelimit"
)

// RateLimitJobs drops expired windows from an in-process rate limit counter.
type RateLimitJobs struct {
	counter *ratelimit.MemoryCounter
}

func NewRateLimitJobs(counter *ratelimit.MemoryCounter) *RateLimitJobs {
	return &RateLimitJobs{counter: counter}
}

func (j *RateLimitJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("prune_rate_limit_windows", interval, j.PruneWindows)
}

func (j *RateLimitJobs) PruneWindows(ctx context.Context) error {
	if removed := j.counter.Prune(ctx); removed > 0 {
		slog.Debug("Cron: Pruned rate limit windows", "count", removed)
	}
	return nil
}
