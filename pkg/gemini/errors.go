package gemini

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey = errors.New("gemini: APIKey is required")
	ErrDecode        = errors.New("gemini: failed to decode response")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini: API error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini: API error %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus exposes the status code for error classification.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}
