package http

import (
	"errors"
	"net/http"

	"family-hub/internal/assistant"
	pkgErrors "family-hub/pkg/errors"
)

var (
	errTextRequired    = pkgErrors.NewHTTPError(http.StatusBadRequest, "text is required")
	errSessionRequired = pkgErrors.NewHTTPError(http.StatusBadRequest, "session id is required")
	errSessionClosed   = pkgErrors.NewHTTPError(http.StatusConflict, "session ended before the message was handled")
)

// mapError translates use case errors into HTTP errors from pkg/errors.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, assistant.ErrInvalidInput):
		return pkgErrors.ErrBadRequest
	case errors.Is(err, assistant.ErrSessionClosed):
		return errSessionClosed
	}
	return pkgErrors.ErrInternalServerError
}
