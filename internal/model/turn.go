package model

import "time"

// OutcomeKind classifies how a turn ended.
type OutcomeKind string

const (
	OutcomeSuccess       OutcomeKind = "success"
	OutcomeClarification OutcomeKind = "clarification"
	OutcomeRefusal       OutcomeKind = "refusal"
	OutcomeError         OutcomeKind = "error"
)

// Outcome summarises the result of a turn.
type Outcome struct {
	Kind        OutcomeKind `json:"kind"`
	EntityType  EntityType  `json:"entity_type,omitempty"`
	EntityID    string      `json:"entity_id,omitempty"`
	EntityTitle string      `json:"entity_title,omitempty"`
	Affected    int         `json:"affected,omitempty"`
	ErrorKind   string      `json:"error_kind,omitempty"`
	Field       string      `json:"field,omitempty"`

	Budget *BudgetSummary `json:"budget,omitempty"`
}

// BudgetSummary is the answer to a budget query.
type BudgetSummary struct {
	Income     float64            `json:"income"`
	Expenses   float64            `json:"expenses"`
	Balance    float64            `json:"balance"`
	Entries    int                `json:"entries"`
	ByCategory map[string]float64 `json:"by_category,omitempty"`
	Period     string             `json:"period,omitempty"`
}

// ConversationTurn is one user message and how it was resolved.
type ConversationTurn struct {
	ID        int64
	Text      string
	Timestamp time.Time
	Action    *Action
	Outcome   Outcome
}

// TurnRecord is what the turn ledger stores to answer redeliveries. UserID and Text
// identify the message so a reused turn id is not mistaken for a redelivery.
type TurnRecord struct {
	TurnID    int64     `json:"turn_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Reply     string    `json:"reply"`
	Action    *Action   `json:"action,omitempty"`
	Applied   bool      `json:"applied"`
	Outcome   Outcome   `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}
