package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter shares windows between service instances.
type RedisCounter struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

func NewRedisCounter(client redis.Cmdable, prefix string) *RedisCounter {
	if prefix == "" {
		prefix = "presence"
	}
	return &RedisCounter{client: client, prefix: prefix, now: time.Now}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	k := r.key("ratelimit", key)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit counter: %w", err)
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = window
	}

	return incr.Val(), r.now().Add(remaining), nil
}

func (r *RedisCounter) key(parts ...string) string {
	var sb strings.Builder
	sb.WriteString(r.prefix)
	for _, part := range parts {
		sb.WriteString(":")
		sb.WriteString(part)
	}
	return sb.String()
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return client, nil
}
