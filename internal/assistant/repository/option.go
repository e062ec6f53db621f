package repository

import "family-hub/internal/model"

// CreateEntityOptions holds parameters for inserting a new entity.
type CreateEntityOptions struct {
	WorkspaceID string
	Type        model.EntityType
	Fields      map[string]any
}

// UpdateEntityOptions sets the given fields on an existing entity; other fields are kept.
type UpdateEntityOptions struct {
	WorkspaceID string
	Type        model.EntityType
	ID          string
	Fields      map[string]any
}

// DeleteEntityOptions identifies one entity to remove.
type DeleteEntityOptions struct {
	WorkspaceID string
	Type        model.EntityType
	ID          string
}

// DeleteEntitiesOptions selects every entity of a type in a workspace.
type DeleteEntitiesOptions struct {
	WorkspaceID string
	Type        model.EntityType
}

// QueryEntitiesOptions filters entities. All non-empty fields are applied as AND conditions.
type QueryEntitiesOptions struct {
	WorkspaceID string
	Type        model.EntityType
	// Title matches the type's title field exactly, ignoring case.
	Title string
	// TitleContains matches a substring of the title field, ignoring case.
	TitleContains string
	Limit         int
}

// TurnScope identifies the conversation a ledger turn belongs to.
type TurnScope struct {
	WorkspaceID string
	SessionID   string
}
