// Package mail implements transactional mail delivery over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"voltcart/config"
	"voltcart/internal/domain/service"
	"voltcart/internal/errors"
)

// smtpMailer sends plain-text mail through a configured SMTP relay.
type smtpMailer struct {
	addr     string
	auth     smtp.Auth
	from     string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer is the constructor for smtpMailer.
func NewSMTPMailer(cfg *config.Config) (service.Mailer, error) {
	if cfg.SMTP == nil || cfg.SMTP.Host == "" || cfg.SMTP.From == "" {
		return nil, errors.New("smtp host and from address must be provided")
	}

	var auth smtp.Auth
	if cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)
	}

	return &smtpMailer{
		addr:     fmt.Sprintf("%s:%d", cfg.SMTP.Host, cfg.SMTP.Port),
		auth:     auth,
		from:     cfg.SMTP.From,
		sendMail: smtp.SendMail,
	}, nil
}

// Send delivers a plain-text message to a single recipient. The context
// deadline is advisory only: net/smtp does not take a context, so a
// cancelled context short-circuits before dialing.
func (m *smtpMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := m.sendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return errors.Wrap(err, "failed to send mail")
	}

	return nil
}
