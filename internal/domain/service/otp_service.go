package service

import (
	"context"
	"errors"
)

// OTP purposes. Codes issued for one purpose never verify under another.
const (
	OTPPurposeRegistration  = "registration"
	OTPPurposeLogin         = "login"
	OTPPurposePasswordReset = "password_reset"
)

// ErrOTPMismatch is returned when a submitted code is wrong, expired, or absent.
var ErrOTPMismatch = errors.New("otp mismatch")

// OTPService issues and verifies short-lived one-time passwords keyed by
// email and purpose. Issuing a new code replaces any outstanding one, and a
// successful verification consumes the code.
type OTPService interface {
	// Issue generates and stores a fresh code, returning it for delivery.
	Issue(ctx context.Context, email, purpose string) (string, error)

	// Verify checks a submitted code and consumes it on success.
	// A wrong, expired, or missing code yields ErrOTPMismatch.
	Verify(ctx context.Context, email, purpose, code string) error
}
