package llmprovider

import (
	"errors"
	"net/http"

	"family-hub/pkg/deepseek"
	"family-hub/pkg/gemini"
	"family-hub/pkg/qwen"
)

// statusError is implemented by every vendor client's APIError.
type statusError interface {
	error
	HTTPStatus() int
}

// classify maps a raw provider error onto one of the error kinds.
func classify(err error) error {
	if errors.Is(err, ErrProviderUnavailable) {
		return ErrProviderUnavailable
	}

	var se statusError
	if errors.As(err, &se) {
		code := se.HTTPStatus()
		switch {
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			return ErrAuth
		case code == http.StatusTooManyRequests:
			return ErrRateLimit
		case code == http.StatusRequestTimeout || code >= http.StatusInternalServerError:
			return ErrNetwork
		default:
			return ErrInvalidResponse
		}
	}

	if errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, gemini.ErrDecode) ||
		errors.Is(err, qwen.ErrDecode) ||
		errors.Is(err, deepseek.ErrDecode) {
		return ErrInvalidResponse
	}

	// Transport failures, deadlines and cancellations.
	return ErrNetwork
}

// transient reports whether a failure of this kind is worth one retry.
func transient(kind error) bool {
	return kind == ErrNetwork
}
