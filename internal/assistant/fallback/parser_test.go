package fallback

import (
	"testing"
	"time"

	"family-hub/internal/model"
	"family-hub/pkg/datemath"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func day(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	dates, err := datemath.NewParser("UTC")
	require.NoError(t, err)
	return New(dates)
}

func TestParseAt(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		text       string
		intent     model.Intent
		fields     map[string]any
		reference  string
		generic    bool
		confidence float64
	}{
		{
			text:   "remind me to buy milk tomorrow",
			intent: model.IntentCreateTask,
			fields: map[string]any{"title": "buy milk", "due": day(2)},
		},
		{
			text:   "Remind Anna to feed the cat",
			intent: model.IntentCreateTask,
			fields: map[string]any{"title": "feed the cat", "assigned_to": "Anna"},
		},
		{
			text:   "add task: call the plumber, urgent",
			intent: model.IntentCreateTask,
			fields: map[string]any{"title": "call the plumber", "priority": "high"},
		},
		{
			text:   "Please schedule dentist appointment on friday at 5pm at Smile Clinic.",
			intent: model.IntentCreateEvent,
			fields: map[string]any{
				"title":    "dentist appointment",
				"start":    time.Date(2024, 5, 3, 17, 0, 0, 0, time.UTC),
				"all_day":  false,
				"location": "Smile Clinic",
			},
		},
		{
			text:    "move it to friday",
			intent:  model.IntentUpdateEvent,
			fields:  map[string]any{"start": day(3), "all_day": true},
			generic: true, reference: "it",
		},
		{
			text:   "cancel the soccer practice",
			intent: model.IntentDeleteEvent,
			fields: map[string]any{"title": "soccer practice"},
		},
		{
			text:   "delete task take out trash",
			intent: model.IntentDeleteTask,
			fields: map[string]any{"title": "take out trash"},
		},
		{
			text:    "delete it",
			intent:  model.IntentDeleteTask,
			fields:  map[string]any{},
			generic: true, reference: "it",
		},
		{
			text:   "mark homework as done",
			intent: model.IntentUpdateTask,
			fields: map[string]any{"title": "homework", "status": "done"},
		},
		{
			text:    `rename laundry to "fold laundry"`,
			intent:  model.IntentUpdateTask,
			fields:  map[string]any{"title": "laundry", "new_title": "fold laundry"},
			generic: true,
		},
		{
			text:    "change it",
			intent:  model.IntentUpdateTask,
			fields:  map[string]any{},
			generic: true, reference: "it",
		},
		{
			text:   "spent $12.50 on groceries yesterday",
			intent: model.IntentAddBudgetEntry,
			fields: map[string]any{
				"kind": "expense", "amount": 12.5, "currency": "USD",
				"description": "groceries", "category": "groceries", "date": time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			text:   "we earned 200 euros from babysitting",
			intent: model.IntentAddBudgetEntry,
			fields: map[string]any{
				"kind": "income", "amount": 200.0, "currency": "EUR",
				"description": "babysitting", "category": "babysitting",
			},
		},
		{
			text:   "how much did we spend this month?",
			intent: model.IntentQueryBudget,
			fields: map[string]any{"period": "month"},
		},
		{
			text:   "how much have we spent so far?",
			intent: model.IntentQueryBudget,
			fields: map[string]any{"period": "all"},
		},
		{
			text:   "show me the budget",
			intent: model.IntentQueryBudget,
			fields: map[string]any{},
		},
		{
			text:   "delete all budget entries",
			intent: model.IntentDeleteBudgetEntry,
			fields: map[string]any{"scope": "all"},
		},
		{
			text:   "add 2 cartons of milk to the shopping list",
			intent: model.IntentAddShoppingItem,
			fields: map[string]any{"name": "milk", "quantity": 2.0},
		},
		{
			text:   "add milk to the list",
			intent: model.IntentAddShoppingItem,
			fields: map[string]any{"name": "milk"},
		},
		{
			text:      "check it off",
			intent:    model.IntentCheckOffShoppingItem,
			fields:    map[string]any{"purchased": true},
			reference: "it",
		},
		{
			text:   "check off eggs",
			intent: model.IntentCheckOffShoppingItem,
			fields: map[string]any{"name": "eggs", "purchased": true},
		},
		{
			text:   "mark bread as bought",
			intent: model.IntentCheckOffShoppingItem,
			fields: map[string]any{"name": "bread", "purchased": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := p.ParseAt(tt.text, base)

			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, model.SourceRule, got.Source)
			assert.GreaterOrEqual(t, got.Confidence, 0.55)
			assert.Equal(t, tt.reference, got.Reference)
			assert.Equal(t, tt.generic, got.Generic)
			if diff := cmp.Diff(tt.fields, got.Fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAt_NoMatch(t *testing.T) {
	p := newTestParser(t)

	for _, text := range []string{"what is the meaning of life", "", "   ", "blue"} {
		got := p.ParseAt(text, base)
		assert.Equal(t, model.IntentUnknown, got.Intent, text)
		assert.Zero(t, got.Confidence, text)
	}
}

func TestParseAt_Greeting(t *testing.T) {
	p := newTestParser(t)

	for _, text := range []string{"hi", "Hello there!", "help", "what can you do?"} {
		got := p.ParseAt(text, base)
		assert.Equal(t, model.IntentUnknown, got.Intent, text)
		assert.Equal(t, model.HintGreeting, got.String(model.FieldHint), text)
		assert.Zero(t, got.Confidence, text)
	}
}

// Every actionable intent must be reachable with no model configured.
func TestParseAt_EveryIntentResolvable(t *testing.T) {
	p := newTestParser(t)

	canonical := map[model.Intent]string{
		model.IntentCreateTask:           "remind me to buy milk tomorrow",
		model.IntentUpdateTask:           "mark the laundry as done",
		model.IntentDeleteTask:           "delete task laundry",
		model.IntentCreateEvent:          "schedule a picnic on saturday",
		model.IntentUpdateEvent:          "move the picnic to sunday",
		model.IntentDeleteEvent:          "cancel the picnic",
		model.IntentAddBudgetEntry:       "I spent 40 dollars on gas",
		model.IntentDeleteBudgetEntry:    "delete all budget entries",
		model.IntentQueryBudget:          "what's our balance",
		model.IntentAddShoppingItem:      "add eggs to the shopping list",
		model.IntentCheckOffShoppingItem: "check eggs off the list",
	}

	for _, intent := range model.Intents() {
		text, ok := canonical[intent]
		require.True(t, ok, "no canonical phrasing for %s", intent)

		got := p.ParseAt(text, base)
		assert.Equal(t, intent, got.Intent, text)
		assert.GreaterOrEqual(t, got.Confidence, 0.55, text)
	}
}

func TestRules_OrderAndNames(t *testing.T) {
	p := newTestParser(t)

	seen := map[string]bool{}
	for _, r := range p.Rules() {
		assert.False(t, seen[r.Name], "duplicate rule %s", r.Name)
		seen[r.Name] = true
	}

	// Copies do not alias the parser's list.
	rules := p.Rules()
	rules[0].Name = "changed"
	assert.NotEqual(t, "changed", p.Rules()[0].Name)
}

func TestParse_UsesClock(t *testing.T) {
	p := newTestParser(t)
	p.now = func() time.Time { return base }

	got := p.Parse("remind me to water the plants today")
	assert.Equal(t, day(1), got.Fields[model.FieldDue])
}
