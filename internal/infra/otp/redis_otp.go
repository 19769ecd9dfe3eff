// Package otp implements one-time-password issuance backed by Redis.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"voltcart/config"
	"voltcart/internal/domain/service"
	"voltcart/internal/errors"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLength      = 6
	defaultTTL         = 5 * time.Minute
	defaultMaxAttempts = 5
)

// redisOTPService stores one code per (email, purpose) pair with a TTL,
// so issuing a fresh code replaces the previous one and expiry needs no
// cleanup job. Wrong guesses are counted per code; hitting the cap burns
// the code.
type redisOTPService struct {
	client      *redis.Client
	length      int
	ttl         time.Duration
	maxAttempts int
}

// NewRedisOTPService is the constructor for redisOTPService.
func NewRedisOTPService(cfg *config.Config, client *redis.Client) service.OTPService {
	length := defaultLength
	ttl := defaultTTL
	maxAttempts := defaultMaxAttempts
	if cfg.OTP != nil {
		if cfg.OTP.Length > 0 {
			length = cfg.OTP.Length
		}
		if cfg.OTP.TTL > 0 {
			ttl = cfg.OTP.TTL
		}
		if cfg.OTP.MaxAttempts > 0 {
			maxAttempts = cfg.OTP.MaxAttempts
		}
	}

	return &redisOTPService{
		client:      client,
		length:      length,
		ttl:         ttl,
		maxAttempts: maxAttempts,
	}
}

// Issue generates and stores a fresh code, returning it for delivery.
func (s *redisOTPService) Issue(ctx context.Context, email, purpose string) (string, error) {
	code, err := generateCode(s.length)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate otp")
	}

	if err := s.client.Set(ctx, otpKey(email, purpose), code, s.ttl).Err(); err != nil {
		return "", errors.Wrap(err, "failed to store otp")
	}

	// A fresh code resets the guess budget.
	if err := s.client.Del(ctx, attemptsKey(email, purpose)).Err(); err != nil {
		return "", errors.Wrap(err, "failed to reset otp attempts")
	}

	return code, nil
}

// Verify checks a submitted code and consumes it on success. Each wrong
// guess counts against the attempt cap; once the cap is reached the stored
// code is deleted and a fresh one must be issued.
func (s *redisOTPService) Verify(ctx context.Context, email, purpose, code string) error {
	key := otpKey(email, purpose)

	stored, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return service.ErrOTPMismatch
		}

		return errors.Wrap(err, "failed to load otp")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		if err := s.recordFailedAttempt(ctx, email, purpose); err != nil {
			return err
		}

		return service.ErrOTPMismatch
	}

	if err := s.client.Del(ctx, key, attemptsKey(email, purpose)).Err(); err != nil {
		return errors.Wrap(err, "failed to consume otp")
	}

	return nil
}

// recordFailedAttempt bumps the per-code guess counter and burns the code
// once the cap is reached. The counter shares the code's TTL so it cannot
// outlive the code it guards.
func (s *redisOTPService) recordFailedAttempt(ctx context.Context, email, purpose string) error {
	counterKey := attemptsKey(email, purpose)

	count, err := s.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return errors.Wrap(err, "failed to count otp attempt")
	}
	if count == 1 {
		if err := s.client.Expire(ctx, counterKey, s.ttl).Err(); err != nil {
			return errors.Wrap(err, "failed to bound otp attempts")
		}
	}

	if count >= int64(s.maxAttempts) {
		if err := s.client.Del(ctx, otpKey(email, purpose), counterKey).Err(); err != nil {
			return errors.Wrap(err, "failed to burn otp")
		}
	}

	return nil
}

func otpKey(email, purpose string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

func attemptsKey(email, purpose string) string {
	return fmt.Sprintf("otp:attempts:%s:%s", purpose, email)
}

// generateCode produces a zero-padded numeric code of the given length.
func generateCode(length int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", length, n), nil
}
