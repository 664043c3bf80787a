package bids

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/notify"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
)

type Service struct {
	jobs     stores.JobStore
	bids     stores.BidStore
	tx       stores.LifecycleStore
	users    stores.UserStore
	notifier notify.Notifier
}

func NewService(jobs stores.JobStore, bids stores.BidStore, tx stores.LifecycleStore, users stores.UserStore, n notify.Notifier) *Service {
	return &Service{jobs: jobs, bids: bids, tx: tx, users: users, notifier: n}
}

type PlaceInput struct {
	Proposal     string `json:"proposal"`
	Amount       int64  `json:"amount"`
	DeliveryDays int    `json:"delivery_days"`
}

func (in PlaceInput) validate() error {
	errs := apperr.FieldErrors{}
	if strings.TrimSpace(in.Proposal) == "" {
		errs.Add("proposal", "Proposal is required")
	}
	if in.Amount <= 0 {
		errs.Add("amount", "Amount must be greater than 0")
	}
	if in.DeliveryDays <= 0 {
		errs.Add("delivery_days", "Delivery time must be at least 1 day")
	}
	return errs.Err()
}

// Place records a pending bid. The job row stays locked while its status is
// checked so a concurrent accept cannot slip in between.
func (s *Service) Place(ctx context.Context, caller authz.Identity, jobID uuid.UUID, in PlaceInput) (*models.Bid, error) {
	if err := authz.RequireRole(caller, models.RoleFreelancer); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var (
		bid models.Bid
		job *models.Job
	)
	err := s.tx.WithinTx(ctx, func(tx stores.LifecycleTx) error {
		var err error
		job, err = tx.LockJob(jobID)
		if err != nil {
			return err
		}
		if job.IsDeleted {
			return apperr.NotFound("job")
		}
		if !job.AcceptsBids() {
			return apperr.InvalidState("job is " + string(job.Status))
		}

		bid = models.Bid{
			JobID:        job.ID,
			FreelancerID: caller.UserID,
			Proposal:     strings.TrimSpace(in.Proposal),
			Amount:       in.Amount,
			DeliveryDays: in.DeliveryDays,
			Status:       models.BidStatusPending,
		}
		return tx.InsertBid(&bid)
	})
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, job.ClientID)
	if err != nil {
		log.Printf("[bids] owner %s lookup failed: %v", job.ClientID, err)
	}
	s.notifier.Notify(notify.BidPlaced(owner, job, &bid))
	return &bid, nil
}

// ListForJob is visible to the job owner only.
func (s *Service) ListForJob(ctx context.Context, caller authz.Identity, jobID uuid.UUID) ([]models.Bid, error) {
	if err := authz.RequireRole(caller); err != nil {
		return nil, err
	}
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireJobOwner(caller, job); err != nil {
		return nil, err
	}
	return s.bids.ListByJob(ctx, jobID)
}

// ListForClient returns bids across every job the caller owns.
func (s *Service) ListForClient(ctx context.Context, caller authz.Identity) ([]models.Bid, error) {
	if err := authz.RequireRole(caller, models.RoleClient); err != nil {
		return nil, err
	}
	return s.bids.ListForClient(ctx, caller.UserID)
}

func (s *Service) ListMine(ctx context.Context, caller authz.Identity) ([]models.Bid, error) {
	if err := authz.RequireRole(caller, models.RoleFreelancer); err != nil {
		return nil, err
	}
	return s.bids.ListByFreelancer(ctx, caller.UserID)
}
