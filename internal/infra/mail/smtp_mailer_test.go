package mail

import (
	"context"
	"net/smtp"
	"testing"

	"voltcart/config"
	"voltcart/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func newTestMailer(t *testing.T, send func(string, smtp.Auth, string, []string, []byte) error) *smtpMailer {
	t.Helper()

	mailer, err := NewSMTPMailer(&config.Config{
		SMTP: &config.SMTPConfig{
			Host: "smtp.example.com",
			Port: 587,
			From: "no-reply@voltcart.example.com",
		},
	})
	require.NoError(t, err)

	m, ok := mailer.(*smtpMailer)
	require.True(t, ok)
	m.sendMail = send

	return m
}

func TestNewSMTPMailer_RequiresHostAndFrom(t *testing.T) {
	_, err := NewSMTPMailer(&config.Config{})
	require.Error(t, err)

	_, err = NewSMTPMailer(&config.Config{
		SMTP: &config.SMTPConfig{Host: "smtp.example.com"},
	})
	require.Error(t, err)
}

func TestSMTPMailer_SendBuildsMessage(t *testing.T) {
	var got sentMail
	mailer := newTestMailer(t, func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		got = sentMail{addr: addr, from: from, to: to, msg: msg}
		return nil
	})

	err := mailer.Send(context.Background(), "ram@example.com", "Your verification code", "Code: 482913")

	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", got.addr)
	assert.Equal(t, "no-reply@voltcart.example.com", got.from)
	assert.Equal(t, []string{"ram@example.com"}, got.to)

	body := string(got.msg)
	assert.Contains(t, body, "From: no-reply@voltcart.example.com\r\n")
	assert.Contains(t, body, "To: ram@example.com\r\n")
	assert.Contains(t, body, "Subject: Your verification code\r\n")
	assert.Contains(t, body, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	assert.Contains(t, body, "\r\n\r\nCode: 482913")
}

func TestSMTPMailer_SendWrapsRelayError(t *testing.T) {
	mailer := newTestMailer(t, func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("relay refused")
	})

	err := mailer.Send(context.Background(), "ram@example.com", "subject", "body")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send mail")
}

func TestSMTPMailer_CancelledContextSkipsDial(t *testing.T) {
	dialed := false
	mailer := newTestMailer(t, func(string, smtp.Auth, string, []string, []byte) error {
		dialed = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.Send(ctx, "ram@example.com", "subject", "body")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, dialed)
}
