package http

import (
	"family-hub/internal/middleware"
	pkgErrors "family-hub/pkg/errors"
	"family-hub/pkg/response"

	"github.com/gin-gonic/gin"
)

// SendMessage godoc
// @Summary     Send a message to the household assistant
// @Description Resolves one message into at most one change to tasks, events, the budget or the shopping list and returns the reply. Re-sending a turn_id returns the original answer.
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Param       X-User-ID      header string     true  "Member id"
// @Param       X-User-Role    header string     true  "admin, parent or child"
// @Param       X-Workspace-ID header string     true  "Family workspace id"
// @Param       X-Session-ID   header string     false "Conversation id, when not given in the body"
// @Param       body           body   messageReq true  "Message"
// @Success     200 {object} messageResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     409 {object} response.Resp "Session ended"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Router      /api/v1/assistant/messages [POST]
func (h *handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processMessageReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Handle(ctx, req.toInput(sc))
	if err != nil {
		h.l.Warnf(ctx, "uc.Handle: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newMessageResp(req.SessionID, output))
}

// EndSession godoc
// @Summary     End a conversation
// @Description Abandons any message still being handled for the session of the caller's workspace and forgets its context.
// @Tags        Assistant
// @Produce     json
// @Param       X-User-ID      header string true "Member id"
// @Param       X-Workspace-ID header string true "Family workspace id"
// @Param       id             path   string true "Session id"
// @Success     200 {object} response.Resp "OK"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Router      /api/v1/assistant/sessions/{id} [DELETE]
func (h *handler) EndSession(c *gin.Context) {
	sc, ok := middleware.GetScope(c)
	if !ok {
		response.Error(c, pkgErrors.ErrUnauthorized, nil)
		return
	}
	id := c.Param("id")
	if id == "" {
		response.Error(c, errSessionRequired, nil)
		return
	}

	h.uc.EndSession(c.Request.Context(), sc.WorkspaceID, id)
	response.OK(c, nil)
}
