package postgre

import (
	"context"

	"family-hub/internal/assistant/repository"
)

// WithinWorkspace runs fn in a transaction holding a transaction-scoped advisory
// lock on the workspace. The lock is released on commit or rollback, including when
// fn panics.
func (r *implRepository) WithinWorkspace(ctx context.Context, workspaceID string, fn func(ctx context.Context, repo repository.EntityRepository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "%s begin: %v", dsn("WithinWorkspace"), err)
		return repository.ErrFailedToLock
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			r.l.Warnf(ctx, "%s rollback: %v", dsn("WithinWorkspace"), rbErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, workspaceID); err != nil {
		r.l.Errorf(ctx, "%s lock %s: %v", dsn("WithinWorkspace"), workspaceID, err)
		return repository.ErrFailedToLock
	}

	if err := fn(ctx, &queries{ext: tx, l: r.l, newID: r.newID}); err != nil {
		return err
	}

	finished = true
	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "%s commit: %v", dsn("WithinWorkspace"), err)
		return repository.ErrFailedToUpdate
	}
	return nil
}
