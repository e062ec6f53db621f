package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"family-hub/internal/assistant"
	"family-hub/internal/assistant/fallback"
	"family-hub/internal/model"
	"family-hub/pkg/llmprovider"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindLower
	kindNumber
	kindBool
	kindTime
)

// guessFields are the fields a model guess may set, with how each is coerced.
var guessFields = map[string]fieldKind{
	model.FieldTitle:       kindString,
	model.FieldNewTitle:    kindString,
	model.FieldDescription: kindString,
	model.FieldAssignedTo:  kindString,
	model.FieldLocation:    kindString,
	model.FieldName:        kindString,
	model.FieldCurrency:    kindString,
	model.FieldPriority:    kindLower,
	model.FieldStatus:      kindLower,
	model.FieldKind:        kindLower,
	model.FieldCategory:    kindLower,
	model.FieldScope:       kindLower,
	model.FieldPeriod:      kindLower,
	model.FieldAmount:      kindNumber,
	model.FieldQuantity:    kindNumber,
	model.FieldAllDay:      kindBool,
	model.FieldPurchased:   kindBool,
	model.FieldDue:         kindTime,
	model.FieldStart:       kindTime,
	model.FieldEnd:         kindTime,
	model.FieldDate:        kindTime,
}

func buildPrompt(text string, now time.Time) llmprovider.Prompt {
	return llmprovider.Prompt{
		System:   fmt.Sprintf(PromptSystem, now.Format("Monday, 2006-01-02 15:04"), now.Location()),
		User:     text,
		Tools:    []llmprovider.Tool{actionTool()},
		ToolName: assistant.ActionToolName,
	}
}

func actionTool() llmprovider.Tool {
	intents := []string{string(model.IntentUnknown)}
	for _, i := range model.Intents() {
		intents = append(intents, string(i))
	}

	props := map[string]any{}
	for name, kind := range guessFields {
		switch kind {
		case kindNumber:
			props[name] = map[string]any{"type": "number"}
		case kindBool:
			props[name] = map[string]any{"type": "boolean"}
		default:
			props[name] = map[string]any{"type": "string"}
		}
	}

	return llmprovider.Tool{
		Name:        assistant.ActionToolName,
		Description: "Record the single household action the message asks for.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"intent":     map[string]any{"type": "string", "enum": intents},
				"confidence": map[string]any{"type": "number"},
				"fields":     map[string]any{"type": "object", "properties": props},
			},
			"required": []string{"intent", "confidence"},
		},
	}
}

// buildHistory replays the session window as alternating user and assistant messages.
func buildHistory(turns []model.ConversationTurn) []llmprovider.Message {
	out := make([]llmprovider.Message, 0, 2*len(turns))
	for _, t := range turns {
		out = append(out, llmprovider.TextMessage(llmprovider.RoleUser, t.Text))
		summary := string(t.Outcome.Kind)
		if t.Action != nil {
			summary = string(t.Action.Intent)
			if t.Outcome.EntityTitle != "" {
				summary += fmt.Sprintf(" %q", t.Outcome.EntityTitle)
			}
			summary += ", " + string(t.Outcome.Kind)
		}
		out = append(out, llmprovider.TextMessage(llmprovider.RoleAssistant, fmt.Sprintf(PromptHistoryReply, summary)))
	}
	return out
}

// actionFromGuess coerces a model guess into a typed Action. Unknown field names are
// dropped; values that cannot be coerced are dropped and left to validation.
func actionFromGuess(g *llmprovider.Guess, loc *time.Location) model.Action {
	a := model.Action{
		Intent:     model.ParseIntent(g.Intent),
		Fields:     map[string]any{},
		Confidence: g.Confidence,
		Source:     model.SourceModel,
	}
	if !a.Intent.Actionable() {
		a.Confidence = 0
		return a
	}

	dateOnly := map[string]bool{}
	for k, v := range g.Fields {
		kind, ok := guessFields[k]
		if !ok {
			continue
		}
		switch kind {
		case kindString:
			if s := asString(v); s != "" {
				a.Fields[k] = s
			}
		case kindLower:
			if s := strings.ToLower(asString(v)); s != "" {
				a.Fields[k] = s
			}
		case kindNumber:
			if f, ok := asNumber(v); ok {
				a.Fields[k] = f
			}
		case kindBool:
			if b, ok := asBool(v); ok {
				a.Fields[k] = b
			}
		case kindTime:
			if t, day, ok := asTime(v, loc); ok {
				a.Fields[k] = t
				dateOnly[k] = day
			}
		}
	}

	if a.Intent.EntityType() == model.EntityEvent && a.Has(model.FieldStart) && !a.Has(model.FieldAllDay) {
		a.Fields[model.FieldAllDay] = dateOnly[model.FieldStart]
	}
	if a.Intent == model.IntentCheckOffShoppingItem && !a.Has(model.FieldPurchased) {
		a.Fields[model.FieldPurchased] = true
	}
	if c, ok := a.Fields[model.FieldCurrency].(string); ok {
		a.Fields[model.FieldCurrency] = strings.ToUpper(c)
	}

	titleField := a.Intent.EntityType().TitleField()
	if s := a.String(titleField); fallback.IsReference(s) {
		delete(a.Fields, titleField)
		a.Reference = strings.ToLower(s)
	}
	return a
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	}
	return ""
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(n), "$€£"))
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	}
	return false, false
}

var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}

// asTime parses ISO 8601 values. The second result is set for values without a clock time.
func asTime(v any, loc *time.Location) (time.Time, bool, bool) {
	s, isStr := v.(string)
	if !isStr {
		return time.Time{}, false, false
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), false, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, true
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}
