package messages

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/notify"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
)

// Service is an append-only log of direct messages. Clients poll
// Conversation; a push is published to the receiver for each new message.
type Service struct {
	messages stores.MessageStore
	users    stores.UserStore
	notifier notify.Notifier
}

func NewService(messages stores.MessageStore, users stores.UserStore, n notify.Notifier) *Service {
	return &Service{messages: messages, users: users, notifier: n}
}

func (s *Service) Send(ctx context.Context, caller authz.Identity, receiverID uuid.UUID, content string) (*models.Message, error) {
	if err := authz.RequireRole(caller); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	errs := apperr.FieldErrors{}
	if content == "" {
		errs.Add("content", "Message cannot be empty")
	}
	if receiverID == uuid.Nil {
		errs.Add("receiver_id", "Receiver is required")
	} else if receiverID == caller.UserID {
		errs.Add("receiver_id", "You cannot message yourself")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		SenderID:   caller.UserID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.MessageReceived(msg))
	return msg, nil
}

// Conversation returns both directions between caller and peer, oldest first.
func (s *Service) Conversation(ctx context.Context, caller authz.Identity, peerID uuid.UUID) ([]models.Message, error) {
	if err := authz.RequireRole(caller); err != nil {
		return nil, err
	}
	return s.messages.Between(ctx, caller.UserID, peerID)
}
