package ratelimit

import (
	"context"
	"testing"
	"time"

	"voltcart/config"
	"voltcart/internal/domain/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limitCfg *config.RateLimitConfig) (service.RateLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(&config.Config{RateLimit: limitCfg}, client), mr
}

func TestRedisLimiter_AllowsWithinBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{MaxAttempts: 3, Window: time.Minute})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}
}

func TestRedisLimiter_DeniesOverBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{MaxAttempts: 2, Window: time.Minute})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLimiter_WindowExpiryResetsBudget(t *testing.T) {
	limiter, mr := newTestLimiter(t, &config.RateLimitConfig{MaxAttempts: 1, Window: time.Minute})

	ctx := context.Background()
	ok, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.False(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, err = limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_FirstAttemptStartsTheClock(t *testing.T) {
	limiter, mr := newTestLimiter(t, &config.RateLimitConfig{MaxAttempts: 10, Window: 15 * time.Minute})

	_, err := limiter.Allow(context.Background(), "203.0.113.7")
	require.NoError(t, err)

	// The window TTL hangs on the counter itself; idle keys expire alone.
	assert.Equal(t, 15*time.Minute, mr.TTL("ratelimit:203.0.113.7"))
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, &config.RateLimitConfig{MaxAttempts: 1, Window: time.Minute})

	ctx := context.Background()
	ok, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	require.False(t, ok)

	// A different client is untouched by the exhausted key.
	ok, err = limiter.Allow(ctx, "198.51.100.23")
	require.NoError(t, err)
	assert.True(t, ok)
}
