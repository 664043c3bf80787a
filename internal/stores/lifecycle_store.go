package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

// LifecycleTx is the set of writes that move jobs and bids through their
// states. Every method runs inside the transaction opened by WithinTx.
// Rows must be locked bid first, then job.
type LifecycleTx interface {
	LockBid(id uuid.UUID) (*models.Bid, error)
	LockJob(id uuid.UUID) (*models.Job, error)
	InsertBid(b *models.Bid) error
	// AssignAcceptedBid moves an open job to in_progress pointing at bidID.
	AssignAcceptedBid(jobID, bidID uuid.UUID) error
	// CompleteJob moves an in_progress job to completed.
	CompleteJob(jobID uuid.UUID) error
	// SetBidStatus moves a bid from one status to another.
	SetBidStatus(bidID uuid.UUID, from, to models.BidStatus) error
}

// LifecycleStore commits fn atomically; any error rolls every write back.
type LifecycleStore interface {
	WithinTx(ctx context.Context, fn func(tx LifecycleTx) error) error
}

type GormLifecycleStore struct{ DB *gorm.DB }

func (s *GormLifecycleStore) WithinTx(ctx context.Context, fn func(tx LifecycleTx) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLifecycleTx{tx: tx})
	})
}

type gormLifecycleTx struct {
	tx *gorm.DB
}

func (t *gormLifecycleTx) LockBid(id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	if err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&bid, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "bid")
	}
	return &bid, nil
}

func (t *gormLifecycleTx) LockJob(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&job, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "job")
	}
	return &job, nil
}

func (t *gormLifecycleTx) InsertBid(b *models.Bid) error {
	return t.tx.Create(b).Error
}

// The WHERE clauses below repeat the expected current status so that a
// concurrent writer that got there first leaves zero rows affected.

func (t *gormLifecycleTx) AssignAcceptedBid(jobID, bidID uuid.UUID) error {
	res := t.tx.Model(&models.Job{}).
		Where("id = ? AND status = ? AND is_deleted = ?", jobID, models.JobStatusOpen, false).
		Updates(map[string]interface{}{
			"status":          models.JobStatusInProgress,
			"accepted_bid_id": bidID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("job is no longer open")
	}
	return nil
}

func (t *gormLifecycleTx) CompleteJob(jobID uuid.UUID) error {
	res := t.tx.Model(&models.Job{}).
		Where("id = ? AND status = ?", jobID, models.JobStatusInProgress).
		Update("status", models.JobStatusCompleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("job is not in progress")
	}
	return nil
}

func (t *gormLifecycleTx) SetBidStatus(bidID uuid.UUID, from, to models.BidStatus) error {
	res := t.tx.Model(&models.Bid{}).
		Where("id = ? AND status = ?", bidID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("bid is no longer " + string(from))
	}
	return nil
}
