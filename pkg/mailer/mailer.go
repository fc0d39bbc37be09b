// Package mailer delivers best-effort notification email. Delivery failures
// are reported to the caller but are never allowed to affect the domain
// operation that triggered them.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config carries SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers mail through an SMTPS relay (implicit TLS, the
// gmail-style port 465 setup).
type SMTPMailer struct {
	cfg    Config
	logger zerolog.Logger
}

// NewSMTP constructs an SMTP-backed mailer.
func NewSMTP(cfg Config, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		logger: logger.With().Str("component", "smtp_mailer").Logger(),
	}
}

// Send connects, authenticates, and submits one message. The context bounds
// the dial; SMTP conversation timeouts ride on the connection deadline.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	address := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: m.cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("dial smtp relay: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("open smtp session: %w", err)
	}
	defer client.Close()

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.cfg.From, to, subject, body)
	if _, err := writer.Write([]byte(message)); err != nil {
		writer.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp finish message: %w", err)
	}

	return client.Quit()
}

// LogMailer is the fallback used when no SMTP relay is configured: it records
// the would-be delivery and succeeds.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLog constructs a logging mailer.
func NewLog(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With().Str("component", "log_mailer").Logger()}
}

// Send logs the message and returns nil.
func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Info().Str("to", to).Str("subject", subject).Msg("mail delivery skipped, smtp relay not configured")
	return nil
}
