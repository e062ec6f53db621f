package session

import (
	"sync"

	"family-hub/internal/model"
)

// Context is the short-term memory of one conversation: a fixed-size ring of turns,
// oldest evicted first.
type Context struct {
	mu     sync.Mutex
	ring   []model.ConversationTurn
	head   int // index of the oldest turn
	size   int
	lastID int64
	closed bool
}

// NewContext creates an empty context holding at most window turns.
func NewContext(window int) *Context {
	if window <= 0 {
		window = 1
	}
	return &Context{ring: make([]model.ConversationTurn, window)}
}

// Append records a turn, evicting the oldest when the window is full.
// Appending to a closed context is a no-op.
func (c *Context) Append(turn model.ConversationTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if turn.ID > c.lastID {
		c.lastID = turn.ID
	}

	if c.size < len(c.ring) {
		c.ring[(c.head+c.size)%len(c.ring)] = turn
		c.size++
		return
	}
	c.ring[c.head] = turn
	c.head = (c.head + 1) % len(c.ring)
}

// Turns returns the retained turns, oldest first.
func (c *Context) Turns() []model.ConversationTurn {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.ConversationTurn, 0, c.size)
	for i := 0; i < c.size; i++ {
		out = append(out, c.ring[(c.head+i)%len(c.ring)])
	}
	return out
}

// Len returns the number of retained turns.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Latest returns the most recent turn.
func (c *Context) Latest() (model.ConversationTurn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.size == 0 {
		return model.ConversationTurn{}, false
	}
	return c.ring[(c.head+c.size-1)%len(c.ring)], true
}

// Lookup finds a retained turn by id.
func (c *Context) Lookup(turnID int64) (model.ConversationTurn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < c.size; i++ {
		t := c.ring[(c.head+i)%len(c.ring)]
		if t.ID == turnID {
			return t, true
		}
	}
	return model.ConversationTurn{}, false
}

// MostRecentEntity walks the window newest first and returns the last entity one of
// the given types was successfully created, updated or listed in. Entities deleted
// in a later turn are skipped.
func (c *Context) MostRecentEntity(types ...model.EntityType) (model.Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := map[string]bool{}
	for i := c.size - 1; i >= 0; i-- {
		t := c.ring[(c.head+i)%len(c.ring)]
		out := t.Outcome
		if out.Kind != model.OutcomeSuccess || out.EntityID == "" || !matches(out.EntityType, types) {
			continue
		}
		if t.Action != nil && t.Action.Intent.Operation() == model.OperationDelete {
			deleted[out.EntityID] = true
			continue
		}
		if deleted[out.EntityID] {
			continue
		}
		return out, true
	}
	return model.Outcome{}, false
}

func matches(t model.EntityType, types []model.EntityType) bool {
	if len(types) == 0 {
		return true
	}
	for _, want := range types {
		if t == want {
			return true
		}
	}
	return false
}

// ReserveTurnID claims a turn id. A positive requested id is accepted as is;
// otherwise the next id after the highest seen is assigned.
func (c *Context) ReserveTurnID(requested int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := requested
	if id <= 0 {
		id = c.lastID + 1
	}
	if id > c.lastID {
		c.lastID = id
	}
	return id
}

// Clear drops every turn and refuses further appends.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.ring {
		c.ring[i] = model.ConversationTurn{}
	}
	c.head, c.size = 0, 0
	c.closed = true
}

// Closed reports whether the session has ended.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
