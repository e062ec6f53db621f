package http

import (
	"strings"

	"family-hub/internal/middleware"
	pkgErrors "family-hub/pkg/errors"

	"github.com/gin-gonic/gin"
)

// processMessageReq binds the message body and fills the session from the profile headers.
func (h *handler) processMessageReq(c *gin.Context) (messageReq, middleware.Scope, error) {
	sc, ok := middleware.GetScope(c)
	if !ok {
		return messageReq{}, sc, pkgErrors.ErrUnauthorized
	}

	var req messageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, sc, pkgErrors.ErrBadRequest
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.SessionID == "" {
		req.SessionID = sc.SessionID
	}

	switch {
	case req.Text == "":
		return req, sc, errTextRequired
	case req.SessionID == "":
		return req, sc, errSessionRequired
	}
	return req, sc, nil
}
