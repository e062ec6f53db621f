package usecase

import (
	"fmt"
	"sort"
	"time"

	"family-hub/internal/assistant"
	"family-hub/internal/model"

	"github.com/xeipuuv/gojsonschema"
)

var (
	nonEmpty = map[string]any{"type": "string", "minLength": 1}
	dateTime = map[string]any{"type": "string", "format": "date-time"}
	text     = map[string]any{"type": "string"}
	number   = map[string]any{"type": "number"}
	boolean  = map[string]any{"type": "boolean"}
)

func enum(values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

var propertySchemas = map[string]map[string]any{
	model.FieldID:          nonEmpty,
	model.FieldTitle:       nonEmpty,
	model.FieldNewTitle:    nonEmpty,
	model.FieldName:        nonEmpty,
	model.FieldDescription: text,
	model.FieldAssignedTo:  text,
	model.FieldLocation:    text,
	model.FieldCategory:    nonEmpty,
	model.FieldCurrency:    text,
	model.FieldDue:         dateTime,
	model.FieldStart:       dateTime,
	model.FieldEnd:         dateTime,
	model.FieldDate:        dateTime,
	model.FieldAmount:      number,
	model.FieldQuantity:    number,
	model.FieldAllDay:      boolean,
	model.FieldPurchased:   boolean,
	model.FieldPriority:    enum(model.PriorityLow, model.PriorityMedium, model.PriorityHigh),
	model.FieldStatus:      enum(model.TaskStatusTodo, model.TaskStatusDone),
	model.FieldKind:        enum(model.BudgetKindIncome, model.BudgetKindExpense),
	model.FieldScope:       enum(model.ScopeAll),
	model.FieldPeriod:      enum(PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll),
}

// requiredFields are checked by the schema. Subjects of updates and deletes are
// checked in code because an id can stand in for a title.
var requiredFields = map[model.Intent][]string{
	model.IntentCreateTask:      {model.FieldTitle},
	model.IntentCreateEvent:     {model.FieldTitle, model.FieldStart},
	model.IntentAddBudgetEntry:  {model.FieldAmount, model.FieldKind, model.FieldCategory},
	model.IntentAddShoppingItem: {model.FieldName},
}

var schemas = compileSchemas()

func compileSchemas() map[model.Intent]*gojsonschema.Schema {
	out := make(map[model.Intent]*gojsonschema.Schema, len(model.Intents()))
	for _, intent := range model.Intents() {
		s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaFor(intent)))
		if err != nil {
			panic(fmt.Sprintf("usecase: schema for %s: %v", intent, err))
		}
		out[intent] = s
	}
	return out
}

func schemaFor(intent model.Intent) map[string]any {
	props := make(map[string]any, len(propertySchemas))
	for name, s := range propertySchemas {
		props[name] = s
	}
	schema := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": props,
	}
	if req := requiredFields[intent]; len(req) > 0 {
		schema["required"] = req
	}
	return schema
}

// checkSchema validates the field document of a. Times are rendered as RFC 3339.
func checkSchema(a model.Action) error {
	schema, ok := schemas[a.Intent]
	if !ok {
		return &assistant.ValidationError{Field: assistant.FieldIntent, Reason: "unsupported"}
	}

	doc := make(map[string]any, len(a.Fields))
	for k, v := range a.Fields {
		if t, isTime := v.(time.Time); isTime {
			v = t.Format(time.RFC3339)
		}
		doc[k] = v
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &assistant.ValidationError{Field: "fields", Reason: err.Error()}
	}
	if res.Valid() {
		return nil
	}

	errs := res.Errors()
	sort.Slice(errs, func(i, j int) bool { return fieldOf(errs[i]) < fieldOf(errs[j]) })
	first := errs[0]
	if first.Type() == "required" {
		return &assistant.ValidationError{Field: fieldOf(first), Reason: assistant.ReasonRequired}
	}
	return &assistant.ValidationError{Field: fieldOf(first), Reason: first.Description()}
}

func fieldOf(e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		if p, ok := e.Details()["property"].(string); ok {
			return p
		}
	}
	return e.Field()
}
