package session

import (
	"testing"
	"time"

	"family-hub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func successTurn(id int64, intent model.Intent, entityID string) model.ConversationTurn {
	return model.ConversationTurn{
		ID:        id,
		Timestamp: time.Unix(id, 0),
		Action:    &model.Action{Intent: intent},
		Outcome: model.Outcome{
			Kind:       model.OutcomeSuccess,
			EntityType: intent.EntityType(),
			EntityID:   entityID,
		},
	}
}

func TestContext_EvictsOldestFirst(t *testing.T) {
	c := NewContext(3)
	for i := int64(1); i <= 5; i++ {
		c.Append(model.ConversationTurn{ID: i})
	}

	turns := c.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, []int64{3, 4, 5}, []int64{turns[0].ID, turns[1].ID, turns[2].ID})

	latest, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, int64(5), latest.ID)

	_, ok = c.Lookup(2)
	assert.False(t, ok, "evicted turn must not be found")
	_, ok = c.Lookup(4)
	assert.True(t, ok)
}

func TestContext_MostRecentEntity(t *testing.T) {
	c := NewContext(6)
	c.Append(successTurn(1, model.IntentCreateTask, "task-1"))
	c.Append(successTurn(2, model.IntentAddShoppingItem, "item-1"))
	c.Append(model.ConversationTurn{ID: 3, Outcome: model.Outcome{Kind: model.OutcomeClarification}})
	c.Append(successTurn(4, model.IntentCreateEvent, "event-1"))

	out, ok := c.MostRecentEntity(model.EntityShoppingItem)
	require.True(t, ok)
	assert.Equal(t, "item-1", out.EntityID)

	out, ok = c.MostRecentEntity(model.EntityTask, model.EntityEvent)
	require.True(t, ok)
	assert.Equal(t, "event-1", out.EntityID)

	_, ok = c.MostRecentEntity(model.EntityBudgetEntry)
	assert.False(t, ok)
}

func TestContext_MostRecentEntitySkipsDeleted(t *testing.T) {
	c := NewContext(6)
	c.Append(successTurn(1, model.IntentCreateTask, "task-1"))
	c.Append(successTurn(2, model.IntentCreateTask, "task-2"))
	c.Append(successTurn(3, model.IntentDeleteTask, "task-2"))

	out, ok := c.MostRecentEntity(model.EntityTask)
	require.True(t, ok)
	assert.Equal(t, "task-1", out.EntityID)
}

func TestContext_ReserveTurnID(t *testing.T) {
	c := NewContext(6)

	assert.Equal(t, int64(1), c.ReserveTurnID(0))
	assert.Equal(t, int64(2), c.ReserveTurnID(0))
	assert.Equal(t, int64(10), c.ReserveTurnID(10))
	assert.Equal(t, int64(11), c.ReserveTurnID(0))
	assert.Equal(t, int64(4), c.ReserveTurnID(4), "a client may replay an older id")
	assert.Equal(t, int64(12), c.ReserveTurnID(0))
}

func TestContext_ClearStopsAppends(t *testing.T) {
	c := NewContext(2)
	c.Append(model.ConversationTurn{ID: 1})
	c.Clear()
	c.Append(model.ConversationTurn{ID: 2})

	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Closed())
	_, ok := c.Latest()
	assert.False(t, ok)
}
