package jobs

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
)

type Service struct {
	jobs  stores.JobStore
	users stores.UserStore
}

func NewService(jobs stores.JobStore, users stores.UserStore) *Service {
	return &Service{jobs: jobs, users: users}
}

// Attrs carries client-editable job fields. A nil field is "not provided".
type Attrs struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Skills      []string `json:"skills"`
	Budget      *int64   `json:"budget"`
	Deadline    *string  `json:"deadline"`
}

// apply merges the provided fields into j and reports field errors against
// the merged result.
func (a Attrs) apply(j *models.Job) error {
	errs := apperr.FieldErrors{}

	if a.Title != nil {
		j.Title = strings.TrimSpace(*a.Title)
	}
	if a.Description != nil {
		j.Description = strings.TrimSpace(*a.Description)
	}
	if a.Skills != nil {
		j.Skills = NormalizeSkills(a.Skills)
	}
	if a.Budget != nil {
		j.Budget = *a.Budget
	}
	if a.Deadline != nil {
		d, err := ParseDate(*a.Deadline)
		if err != nil {
			errs.Add("deadline", "Deadline must be a date (YYYY-MM-DD or RFC 3339)")
		} else {
			j.Deadline = d
		}
	}

	if j.Title == "" {
		errs.Add("title", "Title is required")
	}
	if j.Description == "" {
		errs.Add("description", "Description is required")
	}
	if j.Budget <= 0 {
		errs.Add("budget", "Budget must be greater than 0")
	}
	if j.Deadline.IsZero() && errs["deadline"] == nil {
		errs.Add("deadline", "Deadline is required")
	}
	return errs.Err()
}

// NormalizeSkills trims entries, drops empties and removes duplicates,
// keeping first-seen order.
func NormalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// ParseFilter builds a listing filter from raw query values. A malformed
// budget is a validation error; a malformed date is ignored.
func ParseFilter(budget, skills, date string) (stores.JobFilter, error) {
	var f stores.JobFilter

	if b := strings.TrimSpace(budget); b != "" {
		n, err := strconv.ParseInt(b, 10, 64)
		if err != nil {
			return f, apperr.Field("budget", "Budget must be a whole number")
		}
		f.MaxBudget = &n
	}
	if skills != "" {
		f.Skills = NormalizeSkills(strings.Split(skills, ","))
	}
	if date != "" {
		if t, err := ParseDate(date); err == nil {
			f.PostedAfter = &t
		}
	}
	return f, nil
}

func (s *Service) Create(ctx context.Context, caller authz.Identity, a Attrs) (*models.Job, error) {
	if err := authz.RequireRole(caller, models.RoleClient); err != nil {
		return nil, err
	}

	job := &models.Job{
		ClientID: caller.UserID,
		Skills:   []string{},
		Status:   models.JobStatusOpen,
	}
	if err := a.apply(job); err != nil {
		return nil, err
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	log.Printf("[jobs] job %s created by %s", job.ID, caller.UserID)
	return job, nil
}

func (s *Service) List(ctx context.Context, f stores.JobFilter) ([]models.Job, error) {
	return s.jobs.List(ctx, f)
}

// Get hides soft-deleted jobs.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.IsDeleted {
		return nil, apperr.NotFound("job")
	}
	return job, nil
}

// Update never touches status or the accepted bid.
func (s *Service) Update(ctx context.Context, caller authz.Identity, id uuid.UUID, a Attrs) (*models.Job, error) {
	if err := authz.RequireRole(caller); err != nil {
		return nil, err
	}
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireJobOwner(caller, job); err != nil {
		return nil, err
	}
	if err := a.apply(job); err != nil {
		return nil, err
	}
	if err := s.jobs.UpdateDetails(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete is idempotent: deleting a deleted job succeeds without a write.
func (s *Service) Delete(ctx context.Context, caller authz.Identity, id uuid.UUID) error {
	if err := authz.RequireRole(caller); err != nil {
		return err
	}
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireJobOwner(caller, job); err != nil {
		return err
	}
	if job.IsDeleted {
		return nil
	}
	return s.jobs.SoftDelete(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, caller authz.Identity) ([]models.Job, int64, error) {
	if err := authz.RequireRole(caller, models.RoleClient); err != nil {
		return nil, 0, err
	}
	jobs, err := s.jobs.ListByClient(ctx, caller.UserID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.CountByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// CountByOwner counts the owner's live (non-deleted) jobs.
func (s *Service) CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	return s.jobs.CountByClient(ctx, owner)
}

type Summary struct {
	ClientID   uuid.UUID    `json:"client_id"`
	ClientName string       `json:"client_name"`
	Total      int64        `json:"total"`
	Jobs       []models.Job `json:"jobs"`
}

// ClientSummary is the public view of a client's live postings.
func (s *Service) ClientSummary(ctx context.Context, clientID uuid.UUID) (*Summary, error) {
	u, err := s.users.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleClient {
		return nil, apperr.NotFound("client")
	}
	jobs, err := s.jobs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	total, err := s.CountByOwner(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		ClientID:   u.ID,
		ClientName: u.Name,
		Total:      total,
		Jobs:       jobs,
	}, nil
}
