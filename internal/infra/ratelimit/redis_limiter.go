// Package ratelimit implements a fixed-window per-key rate limiter backed by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"voltcart/config"
	"voltcart/internal/domain/service"
	"voltcart/internal/errors"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 100
	defaultWindow      = 15 * time.Minute
)

// redisLimiter counts attempts per key in a fixed window. The counter key
// carries the window as its TTL, so idle keys expire on their own.
type redisLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewRedisLimiter is the constructor for redisLimiter.
func NewRedisLimiter(cfg *config.Config, client *redis.Client) service.RateLimiter {
	maxAttempts := defaultMaxAttempts
	window := defaultWindow
	if cfg.RateLimit != nil {
		if cfg.RateLimit.MaxAttempts > 0 {
			maxAttempts = cfg.RateLimit.MaxAttempts
		}
		if cfg.RateLimit.Window > 0 {
			window = cfg.RateLimit.Window
		}
	}

	return &redisLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allow records one attempt for the key and reports whether it is still
// within the window budget.
func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	counterKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := l.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to increment rate limit counter")
	}

	// First attempt in this window: start the clock.
	if count == 1 {
		if err := l.client.Expire(ctx, counterKey, l.window).Err(); err != nil {
			return false, errors.Wrap(err, "failed to set rate limit window")
		}
	}

	return count <= int64(l.maxAttempts), nil
}
