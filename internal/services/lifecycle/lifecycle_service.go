// Package lifecycle drives the job and bid state machines. Every transition
// runs in one store transaction; notifications go out only after commit.
package lifecycle

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/notify"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
)

type Service struct {
	tx       stores.LifecycleStore
	jobs     stores.JobStore
	users    stores.UserStore
	notifier notify.Notifier
}

func NewService(tx stores.LifecycleStore, jobs stores.JobStore, users stores.UserStore, n notify.Notifier) *Service {
	return &Service{tx: tx, jobs: jobs, users: users, notifier: n}
}

// Result is the committed state of both rows after a transition.
type Result struct {
	Job models.Job `json:"job"`
	Bid models.Bid `json:"bid"`
}

// AcceptBid moves the job open -> in_progress and the bid pending -> accepted
// together. Other bids on the job stay pending.
func (s *Service) AcceptBid(ctx context.Context, caller authz.Identity, bidID uuid.UUID) (*Result, error) {
	if err := authz.RequireRole(caller); err != nil {
		return nil, err
	}

	var res Result
	err := s.tx.WithinTx(ctx, func(tx stores.LifecycleTx) error {
		bid, job, err := lockPair(tx, caller, bidID)
		if err != nil {
			return err
		}
		if job.IsDeleted {
			return apperr.InvalidState("job has been deleted")
		}
		if !job.Status.CanTransitionTo(models.JobStatusInProgress) {
			return apperr.InvalidState("job is " + string(job.Status))
		}
		if !bid.Status.CanTransitionTo(models.BidStatusAccepted) {
			return apperr.InvalidState("bid is already " + string(bid.Status))
		}

		if err := tx.AssignAcceptedBid(job.ID, bid.ID); err != nil {
			return err
		}
		if err := tx.SetBidStatus(bid.ID, models.BidStatusPending, models.BidStatusAccepted); err != nil {
			return err
		}

		accepted := bid.ID
		job.Status = models.JobStatusInProgress
		job.AcceptedBidID = &accepted
		bid.Status = models.BidStatusAccepted
		res = Result{Job: *job, Bid: *bid}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[lifecycle] bid %s accepted for job %s", res.Bid.ID, res.Job.ID)
	s.notifier.Notify(notify.BidDecided(s.lookup(ctx, res.Bid.FreelancerID), &res.Job, &res.Bid))
	return &res, nil
}

// RejectBid moves a pending bid to rejected. The job is left as it is.
func (s *Service) RejectBid(ctx context.Context, caller authz.Identity, bidID uuid.UUID) (*Result, error) {
	if err := authz.RequireRole(caller); err != nil {
		return nil, err
	}

	var res Result
	err := s.tx.WithinTx(ctx, func(tx stores.LifecycleTx) error {
		bid, job, err := lockPair(tx, caller, bidID)
		if err != nil {
			return err
		}
		if !bid.Status.CanTransitionTo(models.BidStatusRejected) {
			return apperr.InvalidState("bid is already " + string(bid.Status))
		}
		if err := tx.SetBidStatus(bid.ID, models.BidStatusPending, models.BidStatusRejected); err != nil {
			return err
		}
		bid.Status = models.BidStatusRejected
		res = Result{Job: *job, Bid: *bid}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.BidDecided(s.lookup(ctx, res.Bid.FreelancerID), &res.Job, &res.Bid))
	return &res, nil
}

// CompleteJob moves an in_progress job to completed. The accepted bid
// pointer is kept.
func (s *Service) CompleteJob(ctx context.Context, caller authz.Identity, jobID uuid.UUID) (*Result, error) {
	if err := authz.RequireRole(caller); err != nil {
		return nil, err
	}

	// the accepted bid never changes once set, so an unlocked read is enough
	// to learn which bid row to lock first
	current, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireJobOwner(caller, current); err != nil {
		return nil, err
	}
	if current.AcceptedBidID == nil {
		return nil, apperr.InvalidState("job is " + string(current.Status))
	}

	var res Result
	err = s.tx.WithinTx(ctx, func(tx stores.LifecycleTx) error {
		bid, job, err := lockPair(tx, caller, *current.AcceptedBidID)
		if err != nil {
			return err
		}
		if job.IsDeleted {
			return apperr.InvalidState("job has been deleted")
		}
		if !job.Status.CanTransitionTo(models.JobStatusCompleted) {
			return apperr.InvalidState("job is " + string(job.Status))
		}
		if err := tx.CompleteJob(job.ID); err != nil {
			return err
		}
		job.Status = models.JobStatusCompleted
		res = Result{Job: *job, Bid: *bid}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[lifecycle] job %s completed", res.Job.ID)
	s.notifier.Notify(notify.JobCompleted(s.lookup(ctx, res.Bid.FreelancerID), &res.Job, &res.Bid))
	return &res, nil
}

// lockPair locks the bid, then its job, and checks that the caller owns the job.
func lockPair(tx stores.LifecycleTx, caller authz.Identity, bidID uuid.UUID) (*models.Bid, *models.Job, error) {
	bid, err := tx.LockBid(bidID)
	if err != nil {
		return nil, nil, err
	}
	job, err := tx.LockJob(bid.JobID)
	if err != nil {
		return nil, nil, err
	}
	if err := authz.RequireJobOwner(caller, job); err != nil {
		return nil, nil, err
	}
	return bid, job, nil
}

// lookup resolves the recipient's email; a failure only costs the email.
func (s *Service) lookup(ctx context.Context, userID uuid.UUID) *models.User {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		log.Printf("[lifecycle] recipient %s lookup failed: %v", userID, err)
		return nil
	}
	return u
}
