// Package mailer delivers contact-form messages through an authenticated SMTP relay.
package mailer

import (
	"context"
	"fmt"
	"time"

	"folio/internal/models"
	"folio/internal/observability"

	"github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel/attribute"
)

// Subject is the fixed subject line of every contact-form message.
const Subject = "New Message From Your Website!"

// Config describes the relay and the fixed destination mailbox.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Recipient string
	Timeout   time.Duration
}

// Sender sends contact messages over STARTTLS with SMTP PLAIN auth.
type Sender struct {
	cfg Config
}

// NewSender creates a Sender. Port defaults to 587 and the recipient to the
// relay username.
func NewSender(cfg Config) *Sender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Recipient == "" {
		cfg.Recipient = cfg.Username
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Sender{cfg: cfg}
}

// ComposeBody renders the three contact fields into the plain-text body.
func ComposeBody(msg *models.ContactMessage) string {
	return fmt.Sprintf("Name: %s\nEmail address: %s\nMessage: %s", msg.Name, msg.Email, msg.Message)
}

// BuildMessage assembles the outgoing mail. The relay account is the sender;
// the visitor's address goes in Reply-To.
func (s *Sender) BuildMessage(msg *models.ContactMessage) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.Username); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := m.To(s.cfg.Recipient); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	if err := m.ReplyTo(msg.Email); err != nil {
		return nil, fmt.Errorf("set reply-to: %w", err)
	}
	m.Subject(Subject)
	m.SetBodyString(mail.TypeTextPlain, ComposeBody(msg))
	return m, nil
}

// Send transmits msg once. Any failure, including a malformed address or
// a rejected login, is returned as a SEND_FAILED AppError.
func (s *Sender) Send(ctx context.Context, msg *models.ContactMessage) error {
	span, ctx := observability.NewSpan(ctx, "mailer.send",
		attribute.String("smtp.host", s.cfg.Host),
		attribute.Int("smtp.port", s.cfg.Port),
	)
	defer span.End()

	m, err := s.BuildMessage(msg)
	if err != nil {
		sendErr := models.NewSendFailedError(err)
		span.SetError(sendErr)
		return sendErr
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTimeout(s.cfg.Timeout),
	)
	if err != nil {
		sendErr := models.NewSendFailedError(fmt.Errorf("create smtp client: %w", err))
		span.SetError(sendErr)
		return sendErr
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		sendErr := models.NewSendFailedError(err)
		span.SetError(sendErr)
		return sendErr
	}
	return nil
}
