package postgre

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"family-hub/internal/assistant/repository"
	"family-hub/internal/model"

	"github.com/jmoiron/sqlx"
)

type entityRow struct {
	ID          string    `db:"id"`
	WorkspaceID string    `db:"workspace_id"`
	Type        string    `db:"type"`
	Fields      []byte    `db:"fields"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const entityColumns = `id, workspace_id, type, fields, created_at, updated_at`

// timeFields are stored as RFC 3339 strings and decoded back into time.Time.
var timeFields = []string{model.FieldDue, model.FieldStart, model.FieldEnd, model.FieldDate}

func (row entityRow) toEntity() (model.Entity, error) {
	fields := map[string]any{}
	if len(row.Fields) > 0 {
		if err := json.Unmarshal(row.Fields, &fields); err != nil {
			return model.Entity{}, err
		}
	}
	for _, k := range timeFields {
		s, ok := fields[k].(string)
		if !ok {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			fields[k] = t
		}
	}
	return model.Entity{
		ID:          row.ID,
		WorkspaceID: row.WorkspaceID,
		Type:        model.EntityType(row.Type),
		Fields:      fields,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func encodeFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	return json.Marshal(fields)
}

// CreateEntity inserts a new entity row and returns it.
func (q *queries) CreateEntity(ctx context.Context, opt repository.CreateEntityOptions) (model.Entity, error) {
	if !opt.Type.Valid() {
		return model.Entity{}, fmt.Errorf("%w: unknown entity type %q", repository.ErrFailedToInsert, opt.Type)
	}
	fields, err := encodeFields(opt.Fields)
	if err != nil {
		q.l.Errorf(ctx, "%s encode: %v", dsn("CreateEntity"), err)
		return model.Entity{}, repository.ErrFailedToInsert
	}

	query := `
		INSERT INTO household_entities (id, workspace_id, type, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + entityColumns

	var row entityRow
	if err := sqlx.GetContext(ctx, q.ext, &row, query, q.newID(), opt.WorkspaceID, string(opt.Type), fields); err != nil {
		q.l.Errorf(ctx, "%s: %v", dsn("CreateEntity"), err)
		return model.Entity{}, repository.ErrFailedToInsert
	}
	return row.toEntity()
}

// UpdateEntity merges the given fields into the stored JSONB document.
func (q *queries) UpdateEntity(ctx context.Context, opt repository.UpdateEntityOptions) (model.Entity, error) {
	fields, err := encodeFields(opt.Fields)
	if err != nil {
		q.l.Errorf(ctx, "%s encode: %v", dsn("UpdateEntity"), err)
		return model.Entity{}, repository.ErrFailedToUpdate
	}

	query := `
		UPDATE household_entities
		SET fields = fields || $1::jsonb, updated_at = NOW()
		WHERE workspace_id = $2 AND type = $3 AND id = $4
		RETURNING ` + entityColumns

	var row entityRow
	err = sqlx.GetContext(ctx, q.ext, &row, query, fields, opt.WorkspaceID, string(opt.Type), opt.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entity{}, repository.ErrNotFound
	}
	if err != nil {
		q.l.Errorf(ctx, "%s: %v", dsn("UpdateEntity"), err)
		return model.Entity{}, repository.ErrFailedToUpdate
	}
	return row.toEntity()
}

// DeleteEntity removes one entity. A missing row is ErrNotFound.
func (q *queries) DeleteEntity(ctx context.Context, opt repository.DeleteEntityOptions) error {
	const query = `DELETE FROM household_entities WHERE workspace_id = $1 AND type = $2 AND id = $3`

	res, err := q.ext.ExecContext(ctx, query, opt.WorkspaceID, string(opt.Type), opt.ID)
	if err != nil {
		q.l.Errorf(ctx, "%s: %v", dsn("DeleteEntity"), err)
		return repository.ErrFailedToDelete
	}
	n, err := res.RowsAffected()
	if err != nil {
		q.l.Errorf(ctx, "%s rows: %v", dsn("DeleteEntity"), err)
		return repository.ErrFailedToDelete
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteEntities removes every entity of a type in one statement.
func (q *queries) DeleteEntities(ctx context.Context, opt repository.DeleteEntitiesOptions) (int, error) {
	const query = `DELETE FROM household_entities WHERE workspace_id = $1 AND type = $2`

	res, err := q.ext.ExecContext(ctx, query, opt.WorkspaceID, string(opt.Type))
	if err != nil {
		q.l.Errorf(ctx, "%s: %v", dsn("DeleteEntities"), err)
		return 0, repository.ErrFailedToDelete
	}
	n, err := res.RowsAffected()
	if err != nil {
		q.l.Errorf(ctx, "%s rows: %v", dsn("DeleteEntities"), err)
		return 0, repository.ErrFailedToDelete
	}
	return int(n), nil
}

// QueryEntities returns matching entities, oldest first.
func (q *queries) QueryEntities(ctx context.Context, opt repository.QueryEntitiesOptions) ([]model.Entity, error) {
	where, args := buildQueryEntities(opt)
	query := fmt.Sprintf(`SELECT %s FROM household_entities %s`, entityColumns, where)

	var rows []entityRow
	if err := sqlx.SelectContext(ctx, q.ext, &rows, query, args...); err != nil {
		q.l.Errorf(ctx, "%s: %v", dsn("QueryEntities"), err)
		return nil, repository.ErrFailedToQuery
	}

	out := make([]model.Entity, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntity()
		if err != nil {
			q.l.Errorf(ctx, "%s decode %s: %v", dsn("QueryEntities"), row.ID, err)
			return nil, repository.ErrFailedToQuery
		}
		out = append(out, e)
	}
	return out, nil
}
