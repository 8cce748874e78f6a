package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/cortex-be/middleware"
	"github.com/tieubaoca/cortex-be/service"
	"github.com/tieubaoca/cortex-be/types"
)

type CrawlHandler struct {
	web *service.WebService
	rag service.RAGService
}

func NewCrawlHandler(web *service.WebService, rag service.RAGService) *CrawlHandler {
	return &CrawlHandler{
		web: web,
		rag: rag,
	}
}

// HandleCrawl fetches and cleans the page, then runs the same ingestion
// pipeline as file upload with the URL as the source label.
func (h *CrawlHandler) HandleCrawl(c *gin.Context) {
	claims, ok := middleware.UserFromContext(c)
	if !ok {
		sendError(c, types.ErrUnauthorized)
		return
	}

	var req types.CrawlRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	title, text, err := h.web.FetchPage(c.Request.Context(), req.URL)
	if err != nil {
		sendError(c, err)
		return
	}

	result, err := h.rag.IngestURL(c.Request.Context(), claims.ID, req.URL, title, text)
	if err != nil {
		processed := 0
		if result != nil {
			processed = result.ChunksProcessed
		}
		c.JSON(statusForError(err), types.DataResponse{
			Status:  false,
			Message: err.Error(),
			Data: types.IngestResponse{
				Status:          "partial",
				Source:          req.URL,
				ChunksProcessed: processed,
			},
		})
		return
	}

	sendSuccess(c, types.IngestResponse{
		Status:          "success",
		Source:          req.URL,
		ChunksProcessed: result.ChunksProcessed,
	})
}
