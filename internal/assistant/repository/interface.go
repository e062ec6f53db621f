package repository

import (
	"context"

	"family-hub/internal/model"
)

// Repository is the household data store the assistant writes to.
type Repository interface {
	EntityRepository

	// WithinWorkspace runs fn as the only writer of the workspace. The section is
	// released on every exit path; an error from fn rolls back anything fn wrote.
	WithinWorkspace(ctx context.Context, workspaceID string, fn func(ctx context.Context, repo EntityRepository) error) error
}

// EntityRepository defines all data access methods for household entities.
type EntityRepository interface {
	CreateEntity(ctx context.Context, opt CreateEntityOptions) (model.Entity, error)
	UpdateEntity(ctx context.Context, opt UpdateEntityOptions) (model.Entity, error)
	DeleteEntity(ctx context.Context, opt DeleteEntityOptions) error
	// DeleteEntities removes every entity of a type in one atomic call and returns how many went.
	DeleteEntities(ctx context.Context, opt DeleteEntitiesOptions) (int, error)
	QueryEntities(ctx context.Context, opt QueryEntitiesOptions) ([]model.Entity, error)
}

// LedgerRepository remembers how each conversation turn was answered. Turns are
// scoped to a workspace and session; the same session id in another workspace is a
// different conversation.
type LedgerRepository interface {
	// NextTurnID claims a turn id in the scope. A positive requested id is taken as is;
	// zero assigns an id above every id the scope has claimed or recorded, so a
	// recreated session never reuses a recorded id.
	NextTurnID(ctx context.Context, scope TurnScope, requested int64) (int64, error)
	// GetTurn returns the stored record; found is false when the turn is new.
	GetTurn(ctx context.Context, scope TurnScope, turnID int64) (rec model.TurnRecord, found bool, err error)
	// SaveTurn stores rec unless the turn is already recorded; the first write wins.
	SaveTurn(ctx context.Context, scope TurnScope, rec model.TurnRecord) error
}
