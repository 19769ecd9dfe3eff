package otp

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

// wrongGuess derives a code that is guaranteed not to match.
func wrongGuess(code string) string {
	if code[0] == '0' {
		return "1" + code[1:]
	}

	return "0" + code[1:]
}

func newTestOTPService(t *testing.T, otpCfg *config.OTPConfig) (service.OTPService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisOTPService(&config.Config{OTP: otpCfg}, client), mr
}

func TestRedisOTP_IssueStoresCodeWithTTL(t *testing.T) {
	svc, mr := newTestOTPService(t, &config.OTPConfig{Length: 6, TTL: 2 * time.Minute})

	code, err := svc.Issue(context.Background(), "ram@example.com", "login")

	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Regexp(t, `^\d{6}$`, code)

	stored, err := mr.Get("otp:login:ram@example.com")
	require.NoError(t, err)
	assert.Equal(t, code, stored)
	assert.Equal(t, 2*time.Minute, mr.TTL("otp:login:ram@example.com"))
}

func TestRedisOTP_IssueReplacesPreviousCode(t *testing.T) {
	svc, _ := newTestOTPService(t, nil)

	ctx := context.Background()
	first, err := svc.Issue(ctx, "ram@example.com", "login")
	require.NoError(t, err)
	second, err := svc.Issue(ctx, "ram@example.com", "login")
	require.NoError(t, err)

	// Only the latest code verifies; same code twice is a valid reissue.
	if first != second {
		assert.ErrorIs(t, svc.Verify(ctx, "ram@example.com", "login", first), service.ErrOTPMismatch)
	}
	assert.NoError(t, svc.Verify(ctx, "ram@example.com", "login", second))
}

func TestRedisOTP_VerifyConsumesCode(t *testing.T) {
	svc, _ := newTestOTPService(t, nil)

	ctx := context.Background()
	code, err := svc.Issue(ctx, "ram@example.com", "login")
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, "ram@example.com", "login", code))
	// Consumed on success: a replayed code no longer verifies.
	assert.ErrorIs(t, svc.Verify(ctx, "ram@example.com", "login", code), service.ErrOTPMismatch)
}

func TestRedisOTP_PurposesAreIsolated(t *testing.T) {
	svc, _ := newTestOTPService(t, nil)

	ctx := context.Background()
	code, err := svc.Issue(ctx, "ram@example.com", "register")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(ctx, "ram@example.com", "login", code), service.ErrOTPMismatch)
	assert.NoError(t, svc.Verify(ctx, "ram@example.com", "register", code))
}

func TestRedisOTP_ExpiredCodeRejected(t *testing.T) {
	svc, mr := newTestOTPService(t, &config.OTPConfig{TTL: time.Minute})

	ctx := context.Background()
	code, err := svc.Issue(ctx, "ram@example.com", "login")
	require.NoError(t, err)

	mr.FastForward(time.Minute + time.Second)

	assert.ErrorIs(t, svc.Verify(ctx, "ram@example.com", "login", code), service.ErrOTPMismatch)
}

func TestRedisOTP_AttemptCapBurnsCode(t *testing.T) {
	svc, _ := newTestOTPService(t, &config.OTPConfig{MaxAttempts: 3})

	ctx := context.Background()
	code, err := svc.Issue(ctx, "ram@example.com", "login")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, svc.Verify(ctx, "ram@example.com", "login", wrongGuess(code)), service.ErrOTPMismatch)
	}

	// The cap burned the code: even the right one is rejected now.
	assert.ErrorIs(t, svc.Verify(ctx, "ram@example.com", "login", code), service.ErrOTPMismatch)
}

func TestRedisOTP_ReissueResetsAttemptBudget(t *testing.T) {
	svc, _ := newTestOTPService(t, &config.OTPConfig{MaxAttempts: 3})

	ctx := context.Background()
	first, err := svc.Issue(ctx, "ram@example.com", "login")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, svc.Verify(ctx, "ram@example.com", "login", wrongGuess(first)), service.ErrOTPMismatch)
	}

	fresh, err := svc.Issue(ctx, "ram@example.com", "login")
	require.NoError(t, err)

	// Two more wrong guesses fit in the fresh budget.
	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, svc.Verify(ctx, "ram@example.com", "login", wrongGuess(fresh)), service.ErrOTPMismatch)
	}
	assert.NoError(t, svc.Verify(ctx, "ram@example.com", "login", fresh))
}
