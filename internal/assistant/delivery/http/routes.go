package http

import (
	"family-hub/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the assistant under rg. Every route needs a profile.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	r := rg.Group("/assistant", mw.Profile())
	{
		r.POST("/messages", mw.RateLimit(), h.SendMessage)
		r.DELETE("/sessions/:id", h.EndSession)
	}
}
