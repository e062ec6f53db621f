package llmprovider

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Gateway.Complete matches exactly one of these with errors.Is.
var (
	// ErrProviderUnavailable means no usable backend is configured.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrAuth means the backend rejected the credential.
	ErrAuth = errors.New("provider authentication failed")

	// ErrRateLimit means the backend throttled the request.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrNetwork covers transport failures, timeouts and 5xx responses.
	ErrNetwork = errors.New("provider network error")

	// ErrInvalidResponse means the backend answered with nothing usable.
	ErrInvalidResponse = errors.New("provider returned an invalid response")
)

// ProviderError wraps provider-specific errors with their classified kind.
type ProviderError struct {
	Provider string
	Kind     error
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s: %v", e.Provider, e.Kind)
	}
	return fmt.Sprintf("provider %s: %v: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindLabel is a short label for logs and metrics.
func KindLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrRateLimit):
		return "rate_limit"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	default:
		return "network"
	}
}
