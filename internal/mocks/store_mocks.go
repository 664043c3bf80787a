package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
)

type UserStore struct{ mock.Mock }

func (m *UserStore) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserStore) Save(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *UserStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type JobStore struct{ mock.Mock }

func (m *JobStore) Create(ctx context.Context, j *models.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *JobStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *JobStore) List(ctx context.Context, f stores.JobFilter) ([]models.Job, error) {
	args := m.Called(ctx, f)
	var out []models.Job
	if v := args.Get(0); v != nil {
		out = v.([]models.Job)
	}
	return out, args.Error(1)
}

func (m *JobStore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	args := m.Called(ctx, clientID)
	var out []models.Job
	if v := args.Get(0); v != nil {
		out = v.([]models.Job)
	}
	return out, args.Error(1)
}

func (m *JobStore) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *JobStore) UpdateDetails(ctx context.Context, j *models.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *JobStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type BidStore struct{ mock.Mock }

func (m *BidStore) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Bid, error) {
	args := m.Called(ctx, jobID)
	var out []models.Bid
	if v := args.Get(0); v != nil {
		out = v.([]models.Bid)
	}
	return out, args.Error(1)
}

func (m *BidStore) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.Bid, error) {
	args := m.Called(ctx, clientID)
	var out []models.Bid
	if v := args.Get(0); v != nil {
		out = v.([]models.Bid)
	}
	return out, args.Error(1)
}

func (m *BidStore) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Bid, error) {
	args := m.Called(ctx, freelancerID)
	var out []models.Bid
	if v := args.Get(0); v != nil {
		out = v.([]models.Bid)
	}
	return out, args.Error(1)
}

type MessageStore struct{ mock.Mock }

func (m *MessageStore) Create(ctx context.Context, msg *models.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MessageStore) Between(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, a, b)
	var out []models.Message
	if v := args.Get(0); v != nil {
		out = v.([]models.Message)
	}
	return out, args.Error(1)
}

type CodeStore struct{ mock.Mock }

func (m *CodeStore) SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	return m.Called(ctx, email, code, ttl).Error(0)
}

func (m *CodeStore) OTP(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *CodeStore) ClearOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *CodeStore) SaveResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return m.Called(ctx, token, userID, ttl).Error(0)
}

func (m *CodeStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
