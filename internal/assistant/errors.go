package assistant

import (
	"errors"
	"fmt"

	"family-hub/internal/model"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrParse            = errors.New("no actionable intent")
	ErrAmbiguousIntent  = errors.New("ambiguous intent")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
	ErrExecution        = errors.New("execution failed")
	ErrSessionClosed    = errors.New("session closed")
)

// ParseError means the text produced no actionable intent.
type ParseError struct {
	// Greeting is set when the text was small talk rather than a failed request.
	Greeting bool
}

func (e *ParseError) Error() string        { return ErrParse.Error() }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// AmbiguousIntentError names what the assistant needs to know before acting.
type AmbiguousIntentError struct {
	Field  string
	Reason string
	Intent model.Intent
}

func (e *AmbiguousIntentError) Error() string {
	return fmt.Sprintf("ambiguous %s: %s", e.Field, e.Reason)
}

func (e *AmbiguousIntentError) Is(target error) bool { return target == ErrAmbiguousIntent }

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PermissionDeniedError reports a role policy denial.
type PermissionDeniedError struct {
	Role      model.Role
	Intent    model.Intent
	Privilege string
	// Holders are the roles that do hold the privilege.
	Holders []model.Role
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("role %q lacks %s for %s", e.Role, e.Privilege, e.Intent)
}

func (e *PermissionDeniedError) Is(target error) bool { return target == ErrPermissionDenied }

// ExecutionError wraps a store failure. The action is not applied.
type ExecutionError struct {
	Op  string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExecutionError) Is(target error) bool { return target == ErrExecution }
func (e *ExecutionError) Unwrap() error        { return e.Err }
