package http

import (
	"time"

	"family-hub/internal/assistant"
	"family-hub/internal/middleware"
)

// --- Request DTOs ---

// messageReq is one user message. SessionID falls back to the X-Session-ID header.
type messageReq struct {
	Text      string `json:"text" binding:"max=2000"`
	SessionID string `json:"session_id"`
	TurnID    int64  `json:"turn_id" binding:"min=0"`
}

func (r messageReq) toInput(sc middleware.Scope) assistant.HandleInput {
	return assistant.HandleInput{
		SessionID:   r.SessionID,
		WorkspaceID: sc.WorkspaceID,
		Profile:     sc.Profile(),
		Text:        r.Text,
		TurnID:      r.TurnID,
	}
}

// --- Response DTOs ---

type messageResp struct {
	SessionID     string      `json:"session_id"`
	TurnID        int64       `json:"turn_id"`
	Reply         string      `json:"reply"`
	Outcome       outcomeResp `json:"outcome"`
	AppliedAction *actionResp `json:"applied_action,omitempty"`
	Replayed      bool        `json:"replayed,omitempty"`
	Budget        *budgetResp `json:"budget,omitempty"`
}

type outcomeResp struct {
	Kind        string `json:"kind"`
	EntityType  string `json:"entity_type,omitempty"`
	EntityID    string `json:"entity_id,omitempty"`
	EntityTitle string `json:"entity_title,omitempty"`
	Affected    int    `json:"affected,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	Field       string `json:"field,omitempty"`
}

type actionResp struct {
	Intent     string         `json:"intent"`
	Source     string         `json:"source"`
	Confidence float64        `json:"confidence"`
	Fields     map[string]any `json:"fields"`
}

type budgetResp struct {
	Period     string             `json:"period,omitempty"`
	Income     float64            `json:"income"`
	Expenses   float64            `json:"expenses"`
	Balance    float64            `json:"balance"`
	Entries    int                `json:"entries"`
	ByCategory map[string]float64 `json:"by_category,omitempty"`
}

func (h *handler) newMessageResp(sessionID string, o assistant.HandleOutput) messageResp {
	resp := messageResp{
		SessionID: sessionID,
		TurnID:    o.TurnID,
		Reply:     o.Reply,
		Replayed:  o.Replayed,
		Outcome: outcomeResp{
			Kind:        string(o.Outcome.Kind),
			EntityType:  string(o.Outcome.EntityType),
			EntityID:    o.Outcome.EntityID,
			EntityTitle: o.Outcome.EntityTitle,
			Affected:    o.Outcome.Affected,
			ErrorKind:   o.Outcome.ErrorKind,
			Field:       o.Outcome.Field,
		},
	}
	if a := o.AppliedAction; a != nil {
		resp.AppliedAction = &actionResp{
			Intent:     string(a.Intent),
			Source:     string(a.Source),
			Confidence: a.Confidence,
			Fields:     presentFields(a.Fields),
		}
	}
	if b := o.Outcome.Budget; b != nil {
		resp.Budget = &budgetResp{
			Period:     b.Period,
			Income:     b.Income,
			Expenses:   b.Expenses,
			Balance:    b.Balance,
			Entries:    b.Entries,
			ByCategory: b.ByCategory,
		}
	}
	return resp
}

// presentFields renders times as RFC 3339 so clients see the household's offset.
func presentFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if t, ok := v.(time.Time); ok {
			out[k] = t.Format(time.RFC3339)
			continue
		}
		out[k] = v
	}
	return out
}
