// Package mailer sends transactional email. Sending is always best-effort
// from the caller's point of view: booking and payment flows log mail
// failures and carry on.
package mailer

import (
	"fmt"

	"github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"

	"github.com/stayhub/booking-backend/internal/config"
)

// Notifier sends a plain-text email to a single recipient
type Notifier interface {
	Send(to, subject, body string) error
}

// SMTPNotifier sends email through an SMTP relay
type SMTPNotifier struct {
	cfg    config.SMTPConfig
	logger *logrus.Logger
}

// NewSMTPNotifier creates an SMTP-backed notifier
func NewSMTPNotifier(cfg config.SMTPConfig, logger *logrus.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

// Send delivers a message through the configured SMTP relay
func (n *SMTPNotifier) Send(to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(n.cfg.FromName, n.cfg.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(n.cfg.Host,
		gomail.WithPort(n.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.cfg.Username),
		gomail.WithPassword(n.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")

	return nil
}

// LogNotifier logs email instead of sending it. Used in development and
// whenever SMTP_MODE=dev.
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the message without delivering it
func (n *LogNotifier) Send(to, subject, body string) error {
	n.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
		"body":    body,
	}).Info("Email suppressed (dev mode)")
	return nil
}

// New selects a notifier implementation from configuration
func New(cfg config.SMTPConfig, logger *logrus.Logger) Notifier {
	if cfg.Mode == "dev" || cfg.Username == "" {
		return NewLogNotifier(logger)
	}
	return NewSMTPNotifier(cfg, logger)
}
