package qwen

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey = errors.New("qwen: APIKey is required")
	ErrDecode        = errors.New("qwen: failed to decode response")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("qwen: API error %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus exposes the status code for error classification.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}
