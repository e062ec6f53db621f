package model

// Intent is the closed set of household actions the assistant understands.
type Intent string

const (
	IntentCreateTask           Intent = "create_task"
	IntentUpdateTask           Intent = "update_task"
	IntentDeleteTask           Intent = "delete_task"
	IntentCreateEvent          Intent = "create_event"
	IntentUpdateEvent          Intent = "update_event"
	IntentDeleteEvent          Intent = "delete_event"
	IntentAddBudgetEntry       Intent = "add_budget_entry"
	IntentDeleteBudgetEntry    Intent = "delete_budget_entry"
	IntentQueryBudget          Intent = "query_budget"
	IntentAddShoppingItem      Intent = "add_shopping_item"
	IntentCheckOffShoppingItem Intent = "check_off_shopping_item"
	IntentUnknown              Intent = "unknown"
)

// Operation is the kind of store access an intent performs.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationQuery  Operation = "query"
)

type intentInfo struct {
	entity EntityType
	op     Operation
}

var intents = map[Intent]intentInfo{
	IntentCreateTask:           {EntityTask, OperationCreate},
	IntentUpdateTask:           {EntityTask, OperationUpdate},
	IntentDeleteTask:           {EntityTask, OperationDelete},
	IntentCreateEvent:          {EntityEvent, OperationCreate},
	IntentUpdateEvent:          {EntityEvent, OperationUpdate},
	IntentDeleteEvent:          {EntityEvent, OperationDelete},
	IntentAddBudgetEntry:       {EntityBudgetEntry, OperationCreate},
	IntentDeleteBudgetEntry:    {EntityBudgetEntry, OperationDelete},
	IntentQueryBudget:          {EntityBudgetEntry, OperationQuery},
	IntentAddShoppingItem:      {EntityShoppingItem, OperationCreate},
	IntentCheckOffShoppingItem: {EntityShoppingItem, OperationUpdate},
}

// Intents lists every actionable intent in a stable order.
func Intents() []Intent {
	return []Intent{
		IntentCreateTask, IntentUpdateTask, IntentDeleteTask,
		IntentCreateEvent, IntentUpdateEvent, IntentDeleteEvent,
		IntentAddBudgetEntry, IntentDeleteBudgetEntry, IntentQueryBudget,
		IntentAddShoppingItem, IntentCheckOffShoppingItem,
	}
}

// ParseIntent maps a raw string onto the closed set. Anything else is IntentUnknown.
func ParseIntent(s string) Intent {
	i := Intent(s)
	if _, ok := intents[i]; ok {
		return i
	}
	return IntentUnknown
}

// Actionable reports whether the intent can be executed.
func (i Intent) Actionable() bool {
	_, ok := intents[i]
	return ok
}

// EntityType returns the entity the intent operates on.
func (i Intent) EntityType() EntityType {
	return intents[i].entity
}

// Operation returns the store operation the intent performs.
func (i Intent) Operation() Operation {
	return intents[i].op
}

// Mutating reports whether the intent writes to the store.
func (i Intent) Mutating() bool {
	op := i.Operation()
	return op == OperationCreate || op == OperationUpdate || op == OperationDelete
}

// Retarget returns the intent with the same operation on another entity type.
// Only task and event intents are interchangeable.
func (i Intent) Retarget(t EntityType) Intent {
	if i.EntityType() == t {
		return i
	}
	switch {
	case i == IntentUpdateTask && t == EntityEvent:
		return IntentUpdateEvent
	case i == IntentUpdateEvent && t == EntityTask:
		return IntentUpdateTask
	case i == IntentDeleteTask && t == EntityEvent:
		return IntentDeleteEvent
	case i == IntentDeleteEvent && t == EntityTask:
		return IntentDeleteTask
	}
	return i
}
