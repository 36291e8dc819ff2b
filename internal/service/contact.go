package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/pribylovaa/go-portfolio/internal/events"
	"github.com/pribylovaa/go-portfolio/internal/models"
	"github.com/pribylovaa/go-portfolio/internal/pkg/log"
	"github.com/pribylovaa/go-portfolio/internal/pkg/redact"
	"github.com/pribylovaa/go-portfolio/internal/storage"
)

// ContactInput — сообщение из формы обратной связи.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// SubmitContactMessage сохраняет сообщение и публикует contact.received.
func (s *Service) SubmitContactMessage(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	const op = "service.contact.SubmitContactMessage"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	lg := log.From(ctx).With("op", op, "email", redact.Email(in.Email))

	if in.Name == "" || in.Message == "" {
		lg.Warn("invalid argument: empty name or message")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		lg.Warn("invalid argument: email")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	msg := &models.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.inbox.SaveMessage(ctx, msg); err != nil {
		lg.Error("save_message_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("contact_message_saved", slog.String("message_id", msg.ID))

	s.publish(ctx, events.New(events.TypeContactReceived, events.ContactReceived{
		MessageID: msg.ID,
		Name:      msg.Name,
		Subject:   msg.Subject,
	}))

	return msg, nil
}

// ListContactMessages — новые первыми, курсорная пагинация.
func (s *Service) ListContactMessages(ctx context.Context, params models.ListParams) (*models.ContactPage, error) {
	const op = "service.contact.ListContactMessages"

	page, err := s.inbox.ListMessages(ctx, params)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCursor) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCursor)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

func (s *Service) MarkContactMessageRead(ctx context.Context, id string) error {
	const op = "service.contact.MarkContactMessageRead"

	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err := s.inbox.MarkMessageRead(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
