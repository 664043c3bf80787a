package stores

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

// JobFilter predicates are AND-ed; nil/empty fields are ignored.
type JobFilter struct {
	MaxBudget   *int64
	Skills      []string // matches jobs sharing at least one skill
	PostedAfter *time.Time
}

type JobStore interface {
	Create(ctx context.Context, j *models.Job) error
	// FindByID returns soft-deleted jobs too; callers decide visibility.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, f JobFilter) ([]models.Job, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
	// UpdateDetails writes the client-editable columns only.
	UpdateDetails(ctx context.Context, j *models.Job) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type GormJobStore struct{ DB *gorm.DB }

// withClientName projects only the owner's display name onto the job.
func (s *GormJobStore) withClientName(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Select("jobs.*, users.name AS client_name").
		Joins("LEFT JOIN users ON users.id = jobs.client_id")
}

func (s *GormJobStore) Create(ctx context.Context, j *models.Job) error {
	return s.DB.WithContext(ctx).Create(j).Error
}

func (s *GormJobStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	if err := s.withClientName(ctx).First(&j, "jobs.id = ?", id).Error; err != nil {
		return nil, notFound(err, "job")
	}
	return &j, nil
}

func (s *GormJobStore) List(ctx context.Context, f JobFilter) ([]models.Job, error) {
	q := s.withClientName(ctx).
		Where("jobs.is_deleted = ?", false)

	if f.MaxBudget != nil {
		q = q.Where("jobs.budget <= ?", *f.MaxBudget)
	}
	if len(f.Skills) > 0 {
		q = q.Where("jobs.skills && ?", pq.Array(f.Skills))
	}
	if f.PostedAfter != nil {
		q = q.Where("jobs.created_at >= ?", *f.PostedAfter)
	}

	var jobs []models.Job
	if err := q.Order("jobs.created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *GormJobStore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	var jobs []models.Job
	err := s.DB.WithContext(ctx).
		Where("client_id = ? AND is_deleted = ?", clientID, false).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (s *GormJobStore) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Job{}).
		Where("client_id = ? AND is_deleted = ?", clientID, false).
		Count(&n).Error
	return n, err
}

func (s *GormJobStore) UpdateDetails(ctx context.Context, j *models.Job) error {
	return s.DB.WithContext(ctx).Model(j).
		Select("title", "description", "skills", "budget", "deadline").
		Updates(j).Error
}

func (s *GormJobStore) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
