package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	// Between returns the messages exchanged by two users, oldest first.
	Between(ctx context.Context, a, b uuid.UUID) ([]models.Message, error)
}

type GormMessageStore struct{ DB *gorm.DB }

func (s *GormMessageStore) Create(ctx context.Context, m *models.Message) error {
	return s.DB.WithContext(ctx).Create(m).Error
}

func (s *GormMessageStore) Between(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

// NotificationStore keeps the delivery log of outbound side effects.
type NotificationStore interface {
	Record(ctx context.Context, n *models.Notification) error
}

type GormNotificationStore struct{ DB *gorm.DB }

func (s *GormNotificationStore) Record(ctx context.Context, n *models.Notification) error {
	return s.DB.WithContext(ctx).Create(n).Error
}
