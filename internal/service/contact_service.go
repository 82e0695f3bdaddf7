package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/observability"
)

// MessageSender delivers a contact message to the site owner.
type MessageSender interface {
	Send(ctx context.Context, msg *models.ContactMessage) error
}

var errNoRelay = errors.New("no mail relay configured")

type ContactService struct {
	sender MessageSender
}

type ContactInput struct {
	Name    string
	Email   string
	Message string
}

func NewContactService(sender MessageSender) *ContactService {
	return &ContactService{sender: sender}
}

// Send validates the form and hands it to the relay once. Relay errors come
// back as SEND_FAILED; nothing is queued or retried.
func (s *ContactService) Send(ctx context.Context, in ContactInput) error {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
	}
	if err := msg.Validate(); err != nil {
		observability.ContactMessages.WithLabelValues("invalid").Inc()
		return err
	}

	if s.sender == nil {
		observability.ContactMessages.WithLabelValues("failed").Inc()
		return models.NewSendFailedError(errNoRelay)
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		observability.ContactMessages.WithLabelValues("failed").Inc()
		middleware.Logger.ErrorContext(ctx, "contact message not sent", slog.String("error", err.Error()))
		if models.HasCode(err, models.CodeSendFailed) {
			return err
		}
		return models.NewSendFailedError(err)
	}

	observability.ContactMessages.WithLabelValues("sent").Inc()
	return nil
}
