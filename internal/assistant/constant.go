package assistant

import "time"

const (
	DefaultConfidenceThreshold = 0.55
	DefaultContextWindow       = 6
	DefaultSessionTTL          = 30 * time.Minute
	DefaultMaxSessions         = 10000

	// ActionToolName is the function the model is asked to call with its reading of the message.
	ActionToolName = "resolve_household_action"

	// Clarification fields that are not entity fields.
	FieldIntent  = "intent"
	FieldSubject = "subject"
	FieldChange  = "change"
)

// Validation reasons the reply templates know about.
const (
	ReasonRequired = "is required"
	ReasonNotFound = "not found"
)
