package usecase

import (
	"encoding/json"
	"testing"
	"time"

	"family-hub/internal/model"
	"family-hub/pkg/llmprovider"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionFromGuess(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name  string
		guess llmprovider.Guess
		want  model.Action
	}{
		{
			name: "coerces values",
			guess: llmprovider.Guess{
				Intent:     "add_budget_entry",
				Confidence: 0.8,
				Fields: map[string]any{
					"amount": "$1,250.50", "currency": "eur", "kind": "Expense", "category": "Rent",
					"date": "2024-05-01", "mood": "grumpy",
				},
			},
			want: model.Action{
				Intent: model.IntentAddBudgetEntry, Confidence: 0.8, Source: model.SourceModel,
				Fields: map[string]any{
					"amount": 1250.5, "currency": "EUR", "kind": "expense", "category": "rent",
					"date": time.Date(2024, 5, 1, 0, 0, 0, 0, berlin),
				},
			},
		},
		{
			name: "date-only start is all day",
			guess: llmprovider.Guess{
				Intent: "create_event", Confidence: 0.9,
				Fields: map[string]any{"title": " Picnic ", "start": "2024-05-04"},
			},
			want: model.Action{
				Intent: model.IntentCreateEvent, Confidence: 0.9, Source: model.SourceModel,
				Fields: map[string]any{"title": "Picnic", "start": time.Date(2024, 5, 4, 0, 0, 0, 0, berlin), "all_day": true},
			},
		},
		{
			name: "offset times move to the household zone",
			guess: llmprovider.Guess{
				Intent: "update_event", Confidence: 0.7,
				Fields: map[string]any{"title": "Picnic", "start": "2024-05-04T10:00:00Z", "all_day": "false"},
			},
			want: model.Action{
				Intent: model.IntentUpdateEvent, Confidence: 0.7, Source: model.SourceModel,
				Fields: map[string]any{"title": "Picnic", "start": time.Date(2024, 5, 4, 12, 0, 0, 0, berlin), "all_day": false},
			},
		},
		{
			name: "reference becomes a reference",
			guess: llmprovider.Guess{
				Intent: "check_off_shopping_item", Confidence: 0.9,
				Fields: map[string]any{"name": "it", "quantity": json.Number("2")},
			},
			want: model.Action{
				Intent: model.IntentCheckOffShoppingItem, Confidence: 0.9, Source: model.SourceModel,
				Fields:    map[string]any{"quantity": 2.0, "purchased": true},
				Reference: "it",
			},
		},
		{
			name:  "unknown intent has no confidence",
			guess: llmprovider.Guess{Intent: "order_pizza", Confidence: 0.99, Fields: map[string]any{"title": "pizza"}},
			want:  model.Action{Intent: model.IntentUnknown, Source: model.SourceModel, Fields: map[string]any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.guess
			got := actionFromGuess(&g, berlin)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("actionFromGuess() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildHistory(t *testing.T) {
	turns := []model.ConversationTurn{
		{
			ID: 1, Text: "add milk to the list",
			Action:  &model.Action{Intent: model.IntentAddShoppingItem},
			Outcome: model.Outcome{Kind: model.OutcomeSuccess, EntityTitle: "milk"},
		},
		{ID: 2, Text: "hello", Outcome: model.Outcome{Kind: model.OutcomeClarification}},
	}

	msgs := buildHistory(turns)

	require.Len(t, msgs, 4)
	assert.Equal(t, llmprovider.RoleUser, msgs[0].Role)
	assert.Equal(t, "add milk to the list", msgs[0].Parts[0].Text)
	assert.Equal(t, llmprovider.RoleAssistant, msgs[1].Role)
	assert.Equal(t, `(resolved as add_shopping_item "milk", success)`, msgs[1].Parts[0].Text)
	assert.Equal(t, "(resolved as clarification)", msgs[3].Parts[0].Text)
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt("add milk", base)

	assert.Equal(t, "add milk", p.User)
	assert.Contains(t, p.System, "Wednesday, 2024-05-01 10:00")
	assert.Contains(t, p.System, "timezone UTC")
	require.Len(t, p.Tools, 1)
	assert.Equal(t, p.ToolName, p.Tools[0].Name)
}
