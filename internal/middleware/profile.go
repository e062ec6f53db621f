package middleware

import (
	"strings"

	"family-hub/internal/model"
	"family-hub/pkg/response"

	"github.com/gin-gonic/gin"
)

// Headers set by the session layer in front of the assistant.
const (
	HeaderUserID      = "X-User-ID"
	HeaderUserName    = "X-User-Name"
	HeaderUserRole    = "X-User-Role"
	HeaderWorkspaceID = "X-Workspace-ID"
	HeaderSessionID   = "X-Session-ID"
)

const scopeKey = "family-hub.scope"

// Profile reads who is talking from the request headers. Requests without a user
// or a workspace are rejected; the role is passed through as given and judged later.
func (m Middleware) Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := Scope{
			Scope: model.Scope{
				UserID:      strings.TrimSpace(c.GetHeader(HeaderUserID)),
				WorkspaceID: strings.TrimSpace(c.GetHeader(HeaderWorkspaceID)),
				SessionID:   strings.TrimSpace(c.GetHeader(HeaderSessionID)),
				Role:        model.ParseRole(c.GetHeader(HeaderUserRole)),
			},
			DisplayName: strings.TrimSpace(c.GetHeader(HeaderUserName)),
		}
		if sc.UserID == "" || sc.WorkspaceID == "" {
			m.l.Debugf(c.Request.Context(), "middleware.Profile: missing user or workspace on %s", c.FullPath())
			response.Unauthorized(c)
			return
		}

		c.Set(scopeKey, sc)
		c.Next()
	}
}

// Scope is what Profile stores on the request.
type Scope struct {
	model.Scope
	DisplayName string
}

// Profile returns the member profile of the scope.
func (s Scope) Profile() model.Profile {
	return model.Profile{UserID: s.UserID, DisplayName: s.DisplayName, Role: s.Role}
}

// GetScope returns the scope stored by Profile.
func GetScope(c *gin.Context) (Scope, bool) {
	v, ok := c.Get(scopeKey)
	if !ok {
		return Scope{}, false
	}
	sc, ok := v.(Scope)
	return sc, ok
}
