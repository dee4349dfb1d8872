package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	Threshold int
	Window    time.Duration
}

// Limiter enforces a per-scope, per-identity request budget over a fixed
// window using Redis counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a rate [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Allow counts one request for the scope+identity pair and reports whether
// it fits the window budget. The increment is atomic (INCR), so concurrent
// requests for the same key never lose updates. Returns [ErrRateLimited]
// once the counter exceeds the threshold.
func (l *Limiter) Allow(ctx context.Context, scope, identity string) error {
	count, err := l.redis.Incr(ctx, limitKey(scope, identity)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, limitKey(scope, identity), l.config.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if count > int64(l.config.Threshold) {
		return ErrRateLimited
	}

	return nil
}

// Remaining returns how many requests are left in the current window.
// Missing keys return the full budget and do not reveal identity existence.
func (l *Limiter) Remaining(ctx context.Context, scope, identity string) (int, error) {
	count, err := l.redis.Get(ctx, limitKey(scope, identity)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return l.config.Threshold, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	remaining := l.config.Threshold - int(count)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func limitKey(scope, identity string) string {
	return "grl:" + scope + ":" + identity
}
