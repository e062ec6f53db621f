package assistant

import "family-hub/internal/model"

// HandleInput is one user message.
type HandleInput struct {
	SessionID   string
	WorkspaceID string
	Profile     model.Profile
	Text        string
	// TurnID is optional. Clients that retry send the same id to get the original answer back.
	TurnID int64
}

// HandleOutput is the reply to one user message.
type HandleOutput struct {
	TurnID        int64
	Reply         string
	AppliedAction *model.Action
	Outcome       model.Outcome
	// Replayed is set when the turn had already been answered.
	Replayed bool
}
