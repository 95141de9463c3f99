// Package mailer abstracts outbound email delivery for the password-reset
// flow.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/mbelyaev/postboard/internal/common"
	"github.com/mbelyaev/postboard/internal/logging"
)

// Mailer delivers a single message. Failures are reported as
// common.ErrorDelivery; the reset flow converts them into soft failures.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP endpoint.
type SMTPMailer struct {
	addr string
	from string
}

func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorDelivery, err)
	}
	return nil
}

// LogMailer logs messages instead of delivering them. Used in development
// when no SMTP endpoint is configured.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mailer")}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info(ctx, "outbound email", "to", to, "subject", subject, "body", body)
	return nil
}
