package model

import "time"

// Source records which resolver produced an action.
type Source string

const (
	SourceModel Source = "model"
	SourceRule  Source = "rule"
)

// Well-known action field names.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldNewTitle    = "new_title"
	FieldDescription = "description"
	FieldDue         = "due"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldAssignedTo  = "assigned_to"
	FieldStart       = "start"
	FieldEnd         = "end"
	FieldLocation    = "location"
	FieldAllDay      = "all_day"
	FieldAmount      = "amount"
	FieldCurrency    = "currency"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldName        = "name"
	FieldQuantity    = "quantity"
	FieldPurchased   = "purchased"
	FieldScope       = "scope"
	FieldPeriod      = "period"

	// FieldHint carries a resolver note on unknown actions, e.g. HintGreeting.
	FieldHint = "hint"
)

// HintGreeting marks small talk that should be answered with what the assistant can do.
const HintGreeting = "greeting"

// ScopeAll marks a bulk action over every entity of the intent's type.
const ScopeAll = "all"

// Action is a fully resolved request against household data.
// Field values are string, float64, bool or time.Time.
type Action struct {
	Intent     Intent         `json:"intent"`
	Fields     map[string]any `json:"fields"`
	Confidence float64        `json:"confidence"`
	Source     Source         `json:"source"`

	// Reference holds an elliptical subject ("it", "that one") left for context resolution.
	Reference string `json:"reference,omitempty"`
	// Generic marks an update/delete whose subject may be a task or an event.
	Generic bool `json:"generic,omitempty"`
}

// Clone returns a deep copy of the field map.
func (a Action) Clone() Action {
	fields := make(map[string]any, len(a.Fields))
	for k, v := range a.Fields {
		fields[k] = v
	}
	a.Fields = fields
	return a
}

// String returns a string field, or "".
func (a Action) String(key string) string {
	s, _ := a.Fields[key].(string)
	return s
}

// Float returns a float field.
func (a Action) Float(key string) (float64, bool) {
	f, ok := a.Fields[key].(float64)
	return f, ok
}

// Time returns a time field.
func (a Action) Time(key string) (time.Time, bool) {
	t, ok := a.Fields[key].(time.Time)
	return t, ok && !t.IsZero()
}

// Has reports whether key carries a non-empty value.
func (a Action) Has(key string) bool {
	v, ok := a.Fields[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

// Subject returns the identifying title for the action's target, if any.
func (a Action) Subject() string {
	if t := a.String(a.Intent.EntityType().TitleField()); t != "" {
		return t
	}
	return a.String(FieldTitle)
}

// changeFields are the fields an update may modify, per entity type.
var changeFields = map[EntityType][]string{
	EntityTask:         {FieldNewTitle, FieldDescription, FieldDue, FieldPriority, FieldStatus, FieldAssignedTo},
	EntityEvent:        {FieldNewTitle, FieldDescription, FieldStart, FieldEnd, FieldLocation, FieldAllDay},
	EntityShoppingItem: {FieldPurchased, FieldQuantity},
}

// ChangeFields lists the update fields allowed for the entity type.
func ChangeFields(t EntityType) []string {
	return changeFields[t]
}

// HasChanges reports whether an update action carries at least one change.
// A generic action counts changes valid for either a task or an event.
func (a Action) HasChanges() bool {
	types := []EntityType{a.Intent.EntityType()}
	if a.Generic {
		types = []EntityType{EntityTask, EntityEvent}
	}
	for _, t := range types {
		for _, f := range changeFields[t] {
			if a.Has(f) {
				return true
			}
		}
	}
	return false
}

// RetargetTo switches a generic task/event action to the given entity type,
// renaming the date field so "due" and "start" stay consistent.
func (a Action) RetargetTo(t EntityType) Action {
	out := a.Clone()
	out.Intent = a.Intent.Retarget(t)
	out.Generic = false
	switch t {
	case EntityTask:
		if v, ok := out.Fields[FieldStart]; ok {
			out.Fields[FieldDue] = v
			delete(out.Fields, FieldStart)
		}
		delete(out.Fields, FieldEnd)
		delete(out.Fields, FieldLocation)
		delete(out.Fields, FieldAllDay)
	case EntityEvent:
		if v, ok := out.Fields[FieldDue]; ok {
			out.Fields[FieldStart] = v
			delete(out.Fields, FieldDue)
		}
	}
	return out
}
