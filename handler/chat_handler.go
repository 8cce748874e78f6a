package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/cortex-be/middleware"
	"github.com/tieubaoca/cortex-be/service"
	"github.com/tieubaoca/cortex-be/types"
)

type ChatHandler struct {
	rag service.RAGService
}

func NewChatHandler(rag service.RAGService) *ChatHandler {
	return &ChatHandler{
		rag: rag,
	}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	claims, ok := middleware.UserFromContext(c)
	if !ok {
		sendError(c, types.ErrUnauthorized)
		return
	}

	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	result, err := h.rag.Chat(c.Request.Context(), claims.ID, req.Message)
	if err != nil {
		sendError(c, err)
		return
	}

	sendSuccess(c, types.ChatResponse{
		Response: result.Response,
		Sources:  result.Sources,
	})
}
