package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/cortex-be/middleware"
	"github.com/tieubaoca/cortex-be/service"
	"github.com/tieubaoca/cortex-be/types"
)

type WebSocketHandler struct {
	ws *service.WebSocketService
}

func NewWebSocketHandler(ws *service.WebSocketService) *WebSocketHandler {
	return &WebSocketHandler{
		ws: ws,
	}
}

func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	claims, ok := middleware.UserFromContext(c)
	if !ok {
		sendError(c, types.ErrUnauthorized)
		return
	}
	h.ws.HandleChat(c.Writer, c.Request, claims.ID)
}
