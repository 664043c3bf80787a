package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

// BidStore serves bid reads; writes go through LifecycleStore.
type BidStore interface {
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Bid, error)
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.Bid, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Bid, error)
}

type GormBidStore struct{ DB *gorm.DB }

// listing joins the job and the freelancer but projects only the job title
// and the freelancer's display name.
func (s *GormBidStore) listing(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Select("bids.*, jobs.title AS job_title, users.name AS freelancer_name").
		Joins("JOIN jobs ON jobs.id = bids.job_id").
		Joins("LEFT JOIN users ON users.id = bids.freelancer_id")
}

func (s *GormBidStore) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.listing(ctx).
		Where("bids.job_id = ?", jobID).
		Order("bids.created_at DESC").
		Find(&bids).Error
	return bids, err
}

func (s *GormBidStore) ListForClient(ctx context.Context, clientID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.listing(ctx).
		Where("jobs.client_id = ?", clientID).
		Order("bids.created_at DESC").
		Find(&bids).Error
	return bids, err
}

func (s *GormBidStore) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.listing(ctx).
		Where("bids.freelancer_id = ?", freelancerID).
		Order("bids.created_at DESC").
		Find(&bids).Error
	return bids, err
}
