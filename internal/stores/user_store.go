package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

// UserStore abstracts user persistence.
type UserStore interface {
	// Create persists a new user; a taken email is reported as a validation error.
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Save writes profile fields (name, email, country, photo).
	Save(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

// GormUserStore implements UserStore using GORM.
type GormUserStore struct{ DB *gorm.DB }

func (s *GormUserStore) Create(ctx context.Context, u *models.User) error {
	err := s.DB.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Field("email", "Email already registered")
	}
	return err
}

func (s *GormUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (s *GormUserStore) Save(ctx context.Context, u *models.User) error {
	err := s.DB.WithContext(ctx).Model(u).
		Select("name", "email", "country", "photo_url").
		Updates(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Field("email", "Email is already in use")
	}
	return err
}

func (s *GormUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (s *GormUserStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_verified", true).Error
}
