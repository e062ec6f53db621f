package postgre

import (
	"context"
	"fmt"

	"family-hub/internal/assistant/repository"
	"family-hub/pkg/log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type implRepository struct {
	*queries
	db *sqlx.DB
}

// queries runs entity statements against either the pool or an open transaction.
type queries struct {
	ext   sqlx.ExtContext
	l     log.Logger
	newID func() string
}

// New creates a PostgreSQL-backed Repository. Entities live in household_entities
// with their fields in a JSONB column.
func New(db *sqlx.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("assistant/repository/postgre: db is required")
	}
	return &implRepository{
		queries: &queries{ext: db, l: l, newID: uuid.NewString},
		db:      db,
	}
}

// dsn is a helper to return a method-scoped context string for logging.
func dsn(method string) string {
	return fmt.Sprintf("assistant/repository/postgre.%s", method)
}

// Migrate creates the entity table and its indexes if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", dsn("Migrate"), err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS household_entities (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT        NOT NULL,
	type         TEXT        NOT NULL,
	fields       JSONB       NOT NULL DEFAULT '{}'::jsonb,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS household_entities_workspace_type_idx
	ON household_entities (workspace_id, type, created_at);`
