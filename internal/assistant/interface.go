package assistant

import "context"

// UseCase is the single entry point the surrounding UI and session layer talk to.
type UseCase interface {
	// Handle resolves one user message into at most one household mutation and a reply.
	// Only invalid input and a session closed mid-turn are returned as errors; every other
	// path ends in a composed reply.
	Handle(ctx context.Context, input HandleInput) (HandleOutput, error)

	// EndSession abandons any in-flight turn of the workspace's session and clears its context.
	EndSession(ctx context.Context, workspaceID, sessionID string)
}
