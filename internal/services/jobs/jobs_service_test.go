package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/mocks"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/stores"
)

func strp(s string) *string { return &s }
func i64p(n int64) *int64   { return &n }

var (
	client     = authz.Identity{UserID: uuid.New(), Role: models.RoleClient}
	freelancer = authz.Identity{UserID: uuid.New(), Role: models.RoleFreelancer}
)

func validAttrs() Attrs {
	return Attrs{
		Title:       strp("Landing page"),
		Description: strp("Marketing site in Next.js"),
		Skills:      []string{" react ", "", "Go", "React"},
		Budget:      i64p(500),
		Deadline:    strp("2030-01-31"),
	}
}

func TestCreateJob(t *testing.T) {
	js := new(mocks.JobStore)
	js.On("Create", mock.Anything, mock.AnythingOfType("*models.Job")).Return(nil)
	svc := NewService(js, new(mocks.UserStore))

	job, err := svc.Create(context.Background(), client, validAttrs())
	require.NoError(t, err)
	assert.Equal(t, client.UserID, job.ClientID)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.False(t, job.IsDeleted)
	assert.Nil(t, job.AcceptedBidID)
	assert.Equal(t, []string{"react", "Go"}, []string(job.Skills))
	assert.Equal(t, time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC), job.Deadline)
	js.AssertExpectations(t)
}

func TestCreateJobAsFreelancerForbidden(t *testing.T) {
	js := new(mocks.JobStore)
	svc := NewService(js, new(mocks.UserStore))

	_, err := svc.Create(context.Background(), freelancer, validAttrs())
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	js.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateJobValidation(t *testing.T) {
	svc := NewService(new(mocks.JobStore), new(mocks.UserStore))

	_, err := svc.Create(context.Background(), client, Attrs{Budget: i64p(0), Deadline: strp("tomorrow")})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"title", "description", "budget", "deadline"}, keys(verr.Fields))
	assert.Len(t, verr.Fields["deadline"], 1)
}

func keys(m apperr.FieldErrors) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestGetHidesDeleted(t *testing.T) {
	id := uuid.New()
	js := new(mocks.JobStore)
	js.On("FindByID", mock.Anything, id).Return(&models.Job{ID: id, IsDeleted: true}, nil)
	svc := NewService(js, new(mocks.UserStore))

	_, err := svc.Get(context.Background(), id)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdateMergesAndKeepsStatus(t *testing.T) {
	id := uuid.New()
	bidID := uuid.New()
	existing := &models.Job{
		ID: id, ClientID: client.UserID, Title: "Old", Description: "Desc", Budget: 100,
		Deadline: time.Now().Add(24 * time.Hour), Status: models.JobStatusInProgress, AcceptedBidID: &bidID,
	}
	js := new(mocks.JobStore)
	js.On("FindByID", mock.Anything, id).Return(existing, nil)
	js.On("UpdateDetails", mock.Anything, mock.AnythingOfType("*models.Job")).Return(nil)
	svc := NewService(js, new(mocks.UserStore))

	job, err := svc.Update(context.Background(), client, id, Attrs{Title: strp("New"), Budget: i64p(300)})
	require.NoError(t, err)
	assert.Equal(t, "New", job.Title)
	assert.Equal(t, "Desc", job.Description)
	assert.Equal(t, int64(300), job.Budget)
	assert.Equal(t, models.JobStatusInProgress, job.Status)
	assert.Equal(t, &bidID, job.AcceptedBidID)
}

func TestUpdateByNonOwner(t *testing.T) {
	id := uuid.New()
	js := new(mocks.JobStore)
	js.On("FindByID", mock.Anything, id).Return(&models.Job{ID: id, ClientID: uuid.New()}, nil)
	svc := NewService(js, new(mocks.UserStore))

	_, err := svc.Update(context.Background(), client, id, Attrs{Title: strp("Hijack")})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.Update(context.Background(), freelancer, id, Attrs{Title: strp("Hijack")})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	js.AssertNotCalled(t, "UpdateDetails", mock.Anything, mock.Anything)
}

func TestUpdateDeletedJob(t *testing.T) {
	id := uuid.New()
	js := new(mocks.JobStore)
	js.On("FindByID", mock.Anything, id).Return(&models.Job{ID: id, ClientID: client.UserID, IsDeleted: true}, nil)
	svc := NewService(js, new(mocks.UserStore))

	_, err := svc.Update(context.Background(), client, id, Attrs{Title: strp("x")})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDeleteIsIdempotent(t *testing.T) {
	id := uuid.New()
	job := &models.Job{ID: id, ClientID: client.UserID}
	js := new(mocks.JobStore)
	js.On("FindByID", mock.Anything, id).Return(job, nil)
	js.On("SoftDelete", mock.Anything, id).Run(func(mock.Arguments) { job.IsDeleted = true }).Return(nil).Once()
	svc := NewService(js, new(mocks.UserStore))

	require.NoError(t, svc.Delete(context.Background(), client, id))
	require.NoError(t, svc.Delete(context.Background(), client, id))
	js.AssertNumberOfCalls(t, "SoftDelete", 1)

	_, err := svc.Get(context.Background(), id)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDeleteByNonOwner(t *testing.T) {
	id := uuid.New()
	js := new(mocks.JobStore)
	js.On("FindByID", mock.Anything, id).Return(&models.Job{ID: id, ClientID: uuid.New()}, nil)
	svc := NewService(js, new(mocks.UserStore))

	err := svc.Delete(context.Background(), client, id)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("300", "go, react ,", "2024-05-01")
	require.NoError(t, err)
	require.NotNil(t, f.MaxBudget)
	assert.Equal(t, int64(300), *f.MaxBudget)
	assert.Equal(t, []string{"go", "react"}, f.Skills)
	require.NotNil(t, f.PostedAfter)

	f, err = ParseFilter("", "", "not-a-date")
	require.NoError(t, err)
	assert.Nil(t, f.PostedAfter)
	assert.Equal(t, stores.JobFilter{}, f)

	_, err = ParseFilter("cheap", "", "")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestListPassesFilter(t *testing.T) {
	f, _ := ParseFilter("300", "", "")
	js := new(mocks.JobStore)
	js.On("List", mock.Anything, f).Return([]models.Job{{Budget: 200}}, nil)
	svc := NewService(js, new(mocks.UserStore))

	got, err := svc.List(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	js.AssertExpectations(t)
}

func TestListByOwner(t *testing.T) {
	js := new(mocks.JobStore)
	js.On("ListByClient", mock.Anything, client.UserID).Return([]models.Job{{}, {}}, nil)
	js.On("CountByClient", mock.Anything, client.UserID).Return(int64(2), nil)
	svc := NewService(js, new(mocks.UserStore))

	got, total, err := svc.ListByOwner(context.Background(), client)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(2), total)

	_, _, err = svc.ListByOwner(context.Background(), freelancer)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))
	js.AssertNumberOfCalls(t, "CountByClient", 1)
}

func TestCountByOwner(t *testing.T) {
	js := new(mocks.JobStore)
	js.On("CountByClient", mock.Anything, client.UserID).Return(int64(3), nil).Once()
	boom := errors.New("db down")
	js.On("CountByClient", mock.Anything, freelancer.UserID).Return(int64(0), boom).Once()
	svc := NewService(js, new(mocks.UserStore))

	n, err := svc.CountByOwner(context.Background(), client.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = svc.CountByOwner(context.Background(), freelancer.UserID)
	assert.ErrorIs(t, err, boom)

	js.On("ListByClient", mock.Anything, client.UserID).Return([]models.Job{{}}, nil).Once()
	js.On("CountByClient", mock.Anything, client.UserID).Return(int64(0), boom).Once()
	_, _, err = svc.ListByOwner(context.Background(), client)
	assert.ErrorIs(t, err, boom)
	js.AssertExpectations(t)
}

func TestClientSummary(t *testing.T) {
	us := new(mocks.UserStore)
	js := new(mocks.JobStore)
	us.On("FindByID", mock.Anything, client.UserID).
		Return(&models.User{ID: client.UserID, Name: "Cora", Role: models.RoleClient}, nil)
	us.On("FindByID", mock.Anything, freelancer.UserID).
		Return(&models.User{ID: freelancer.UserID, Role: models.RoleFreelancer}, nil)
	js.On("ListByClient", mock.Anything, client.UserID).Return([]models.Job{{Title: "A"}}, nil)
	js.On("CountByClient", mock.Anything, client.UserID).Return(int64(1), nil)
	svc := NewService(js, us)

	sum, err := svc.ClientSummary(context.Background(), client.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Cora", sum.ClientName)
	assert.Equal(t, int64(1), sum.Total)
	assert.Len(t, sum.Jobs, 1)

	_, err = svc.ClientSummary(context.Background(), freelancer.UserID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
