package service

import "context"

// RateLimiter throttles repeated attempts per key, typically a client IP.
type RateLimiter interface {
	// Allow records one attempt for the key and reports whether it is
	// still within the configured window budget.
	Allow(ctx context.Context, key string) (bool, error)
}
