package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
)

var ErrInjected = errors.New("injected failure")

// LifecycleStore is an in-memory stores.LifecycleStore. Transactions are
// serialized by one mutex and a failed fn restores the snapshot taken at
// begin, so rollback behaves like the database.
type LifecycleStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]models.Job
	bids map[uuid.UUID]models.Bid

	// FailOn names a LifecycleTx method that returns ErrInjected.
	FailOn string
}

func NewLifecycleStore() *LifecycleStore {
	return &LifecycleStore{
		jobs: map[uuid.UUID]models.Job{},
		bids: map[uuid.UUID]models.Bid{},
	}
}

func (s *LifecycleStore) PutJob(j models.Job) models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = models.JobStatusOpen
	}
	s.jobs[j.ID] = j
	return j
}

func (s *LifecycleStore) PutBid(b models.Bid) models.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = models.BidStatusPending
	}
	s.bids[b.ID] = b
	return b
}

func (s *LifecycleStore) Job(id uuid.UUID) models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *LifecycleStore) Bid(id uuid.UUID) models.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bids[id]
}

// BidsForJob returns every bid on the job in no particular order.
func (s *LifecycleStore) BidsForJob(jobID uuid.UUID) []models.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Bid
	for _, b := range s.bids {
		if b.JobID == jobID {
			out = append(out, b)
		}
	}
	return out
}

func (s *LifecycleStore) WithinTx(ctx context.Context, fn func(tx stores.LifecycleTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make(map[uuid.UUID]models.Job, len(s.jobs))
	for k, v := range s.jobs {
		jobs[k] = v
	}
	bids := make(map[uuid.UUID]models.Bid, len(s.bids))
	for k, v := range s.bids {
		bids[k] = v
	}

	if err := fn(&memTx{s: s}); err != nil {
		s.jobs, s.bids = jobs, bids
		return err
	}
	return nil
}

type memTx struct{ s *LifecycleStore }

func (t *memTx) fail(op string) error {
	if t.s.FailOn == op {
		return ErrInjected
	}
	return nil
}

func (t *memTx) LockBid(id uuid.UUID) (*models.Bid, error) {
	if err := t.fail("LockBid"); err != nil {
		return nil, err
	}
	b, ok := t.s.bids[id]
	if !ok {
		return nil, apperr.NotFound("bid")
	}
	return &b, nil
}

func (t *memTx) LockJob(id uuid.UUID) (*models.Job, error) {
	if err := t.fail("LockJob"); err != nil {
		return nil, err
	}
	j, ok := t.s.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job")
	}
	return &j, nil
}

func (t *memTx) InsertBid(b *models.Bid) error {
	if err := t.fail("InsertBid"); err != nil {
		return err
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	t.s.bids[b.ID] = *b
	return nil
}

func (t *memTx) AssignAcceptedBid(jobID, bidID uuid.UUID) error {
	if err := t.fail("AssignAcceptedBid"); err != nil {
		return err
	}
	j, ok := t.s.jobs[jobID]
	if !ok || j.Status != models.JobStatusOpen || j.IsDeleted {
		return apperr.InvalidState("job is no longer open")
	}
	id := bidID
	j.Status = models.JobStatusInProgress
	j.AcceptedBidID = &id
	t.s.jobs[jobID] = j
	return nil
}

func (t *memTx) CompleteJob(jobID uuid.UUID) error {
	if err := t.fail("CompleteJob"); err != nil {
		return err
	}
	j, ok := t.s.jobs[jobID]
	if !ok || j.Status != models.JobStatusInProgress {
		return apperr.InvalidState("job is not in progress")
	}
	j.Status = models.JobStatusCompleted
	t.s.jobs[jobID] = j
	return nil
}

func (t *memTx) SetBidStatus(bidID uuid.UUID, from, to models.BidStatus) error {
	if err := t.fail("SetBidStatus"); err != nil {
		return err
	}
	b, ok := t.s.bids[bidID]
	if !ok || b.Status != from {
		return apperr.InvalidState("bid is no longer " + string(from))
	}
	b.Status = to
	t.s.bids[bidID] = b
	return nil
}
