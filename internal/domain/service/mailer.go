package service

import "context"

// Mailer sends transactional email, primarily OTP delivery.
type Mailer interface {
	// Send delivers a plain-text message to a single recipient.
	Send(ctx context.Context, to, subject, body string) error
}
