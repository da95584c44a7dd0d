// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/zblogs/zblogs-api/internal/config"
)

// ErrNotConfigured is returned when a transport lacks credentials or a sender.
var ErrNotConfigured = errors.New("email transport is not configured")

// Message is a rendered outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	// Kind labels the message for logs and metrics, e.g. "signup_otp".
	Kind string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

// Send logs the message.
func (LogMailer) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "email_logged",
		"to", msg.To,
		"kind", msg.Kind,
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return nil
}

// NewMailer builds the transport selected by cfg.Provider.
func NewMailer(cfg config.EmailConfig) (Mailer, error) {
	switch cfg.Provider {
	case config.EmailProviderBrevo, "":
		return NewBrevoMailer(cfg.Brevo, nil), nil
	case config.EmailProviderSMTP:
		return NewSMTPMailer(cfg.SMTP)
	case config.EmailProviderLog:
		return LogMailer{}, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
