package postgre

import (
	"fmt"
	"strings"

	"family-hub/internal/assistant/repository"
	"family-hub/internal/model"
)

// titleExpr is the SQL expression for an entity's title. Field names come from
// model constants, never from input.
func titleExpr(t model.EntityType) string {
	if t.Valid() {
		return fmt.Sprintf("fields->>'%s'", t.TitleField())
	}
	return fmt.Sprintf("COALESCE(fields->>'%s', fields->>'%s', fields->>'%s')",
		model.FieldTitle, model.FieldName, model.FieldDescription)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildQueryEntities builds the WHERE + ORDER + LIMIT clause for QueryEntities.
// All non-empty fields are applied as AND conditions.
func buildQueryEntities(opt repository.QueryEntitiesOptions) (string, []any) {
	conditions := []string{"workspace_id = $1"}
	args := []any{opt.WorkspaceID}
	idx := 2

	if opt.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", idx))
		args = append(args, string(opt.Type))
		idx++
	}
	if opt.Title != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(%s) = LOWER($%d)", titleExpr(opt.Type), idx))
		args = append(args, opt.Title)
		idx++
	}
	if opt.TitleContains != "" {
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", titleExpr(opt.Type), idx))
		args = append(args, "%"+likeEscaper.Replace(opt.TitleContains)+"%")
		idx++
	}

	parts := []string{
		"WHERE " + strings.Join(conditions, " AND "),
		"ORDER BY created_at ASC, id ASC",
	}
	if opt.Limit > 0 {
		parts = append(parts, fmt.Sprintf("LIMIT $%d", idx))
		args = append(args, opt.Limit)
	}
	return strings.Join(parts, " "), args
}
