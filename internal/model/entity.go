package model

import "time"

// EntityType is the kind of shared household record an action touches.
type EntityType string

const (
	EntityTask         EntityType = "task"
	EntityEvent        EntityType = "event"
	EntityBudgetEntry  EntityType = "budget_entry"
	EntityShoppingItem EntityType = "shopping_item"
)

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTask, EntityEvent, EntityBudgetEntry, EntityShoppingItem:
		return true
	}
	return false
}

// TitleField is the field holding the human-readable name of the entity.
func (t EntityType) TitleField() string {
	switch t {
	case EntityShoppingItem:
		return FieldName
	case EntityBudgetEntry:
		return FieldDescription
	default:
		return FieldTitle
	}
}

// Label is the user-facing noun for the entity type.
func (t EntityType) Label() string {
	switch t {
	case EntityTask:
		return "task"
	case EntityEvent:
		return "event"
	case EntityBudgetEntry:
		return "budget entry"
	case EntityShoppingItem:
		return "shopping list item"
	}
	return "item"
}

// Entity is a stored household record.
type Entity struct {
	ID          string
	WorkspaceID string
	Type        EntityType
	Fields      map[string]any
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Title returns the entity's display name.
func (e Entity) Title() string {
	s, _ := e.Fields[e.Type.TitleField()].(string)
	return s
}

// Budget entry kinds.
const (
	BudgetKindIncome  = "income"
	BudgetKindExpense = "expense"

	DefaultBudgetCategory = "other"
)

// Task statuses and priorities.
const (
	TaskStatusTodo = "todo"
	TaskStatusDone = "done"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)
