package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

func setupMockDB(t *testing.T, matchers ...sqlmock.QueryMatcher) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	var matcher sqlmock.QueryMatcher = sqlmock.QueryMatcherRegexp
	if len(matchers) > 0 {
		matcher = matchers[0]
	}
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

func acceptInTx(tx LifecycleTx, bidID uuid.UUID) error {
	bid, err := tx.LockBid(bidID)
	if err != nil {
		return err
	}
	job, err := tx.LockJob(bid.JobID)
	if err != nil {
		return err
	}
	if err := tx.AssignAcceptedBid(job.ID, bid.ID); err != nil {
		return err
	}
	return tx.SetBidStatus(bid.ID, models.BidStatusPending, models.BidStatusAccepted)
}

func TestLifecycleAcceptCommits(t *testing.T) {
	gdb, mock := setupMockDB(t)
	store := &GormLifecycleStore{DB: gdb}
	bidID, jobID, clientID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bids" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "freelancer_id", "status"}).
			AddRow(bidID.String(), jobID.String(), uuid.NewString(), "pending"))
	mock.ExpectQuery(`SELECT \* FROM "jobs" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "status", "is_deleted"}).
			AddRow(jobID.String(), clientID.String(), "open", false))
	mock.ExpectExec(`UPDATE "jobs" SET .*"status"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bids" SET "status"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(tx LifecycleTx) error {
		return acceptInTx(tx, bidID)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLifecycleAcceptRollsBackWhenJobAlreadyTaken(t *testing.T) {
	gdb, mock := setupMockDB(t)
	store := &GormLifecycleStore{DB: gdb}
	bidID, jobID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bids"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "status"}).
			AddRow(bidID.String(), jobID.String(), "pending"))
	mock.ExpectQuery(`SELECT \* FROM "jobs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(jobID.String(), "open"))
	// a concurrent accept committed first: the guarded update matches nothing
	mock.ExpectExec(`UPDATE "jobs" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(tx LifecycleTx) error {
		return acceptInTx(tx, bidID)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLifecycleBidUpdateFailureRollsBackJob(t *testing.T) {
	gdb, mock := setupMockDB(t)
	store := &GormLifecycleStore{DB: gdb}
	bidID, jobID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bids"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "status"}).
			AddRow(bidID.String(), jobID.String(), "pending"))
	mock.ExpectQuery(`SELECT \* FROM "jobs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(jobID.String(), "open"))
	mock.ExpectExec(`UPDATE "jobs" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bids" SET`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(tx LifecycleTx) error {
		return acceptInTx(tx, bidID)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLifecycleMissingBid(t *testing.T) {
	gdb, mock := setupMockDB(t)
	store := &GormLifecycleStore{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bids"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(tx LifecycleTx) error {
		return acceptInTx(tx, uuid.New())
	})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, "bid not found", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}
