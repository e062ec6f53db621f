package postgre

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"family-hub/internal/assistant/repository"
	"family-hub/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestWithinWorkspace_Commit(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("w1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM household_entities")).
		WithArgs("w1", "budget_entry").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := r.WithinWorkspace(context.Background(), "w1", func(ctx context.Context, repo repository.EntityRepository) error {
		n, err := repo.DeleteEntities(ctx, repository.DeleteEntitiesOptions{WorkspaceID: "w1", Type: model.EntityBudgetEntry})
		assert.Equal(t, 2, n)
		return err
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinWorkspace_RollbackOnError(t *testing.T) {
	r, mock := newMockRepo(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := r.WithinWorkspace(context.Background(), "w1", func(ctx context.Context, repo repository.EntityRepository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinWorkspace_LockFailure(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	called := false
	err := r.WithinWorkspace(context.Background(), "w1", func(ctx context.Context, repo repository.EntityRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, repository.ErrFailedToLock)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinWorkspace_RollbackOnPanic(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = r.WithinWorkspace(context.Background(), "w1", func(ctx context.Context, repo repository.EntityRepository) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
