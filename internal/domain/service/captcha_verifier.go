package service

import (
	"context"
	"errors"
)

// ErrCaptchaInvalid is returned when the CAPTCHA provider rejects a token.
var ErrCaptchaInvalid = errors.New("captcha invalid")

// CaptchaVerifier checks a client-solved CAPTCHA token with the provider.
// Credential checks must not run until this verification has passed.
type CaptchaVerifier interface {
	// Verify validates the token for the given client IP.
	// A rejected token yields ErrCaptchaInvalid.
	Verify(ctx context.Context, token, remoteIP string) error
}
