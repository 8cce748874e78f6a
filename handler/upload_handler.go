package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/cortex-be/middleware"
	"github.com/tieubaoca/cortex-be/service"
	"github.com/tieubaoca/cortex-be/types"
	"github.com/tieubaoca/cortex-be/utils"
)

const maxUploadSize = 10 << 20 // 10MB

type UploadHandler struct {
	extract   *service.ExtractService
	rag       service.RAGService
	uploadDir string
}

func NewUploadHandler(extract *service.ExtractService, rag service.RAGService, uploadDir string) *UploadHandler {
	return &UploadHandler{
		extract:   extract,
		rag:       rag,
		uploadDir: uploadDir,
	}
}

// HandleUpload extracts text from the uploaded file and ingests it for the
// requesting user. A mid-ingestion failure reports the chunks that made it
// in before the error; those sections stay stored.
func (h *UploadHandler) HandleUpload(c *gin.Context) {
	claims, ok := middleware.UserFromContext(c)
	if !ok {
		sendError(c, types.ErrUnauthorized)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid file",
		})
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File too large",
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Failed to read file",
		})
		return
	}

	text, err := h.extract.ExtractText(header.Filename, data)
	if err != nil {
		sendError(c, err)
		return
	}

	// Keep the original around so it can be served back later.
	if h.uploadDir != "" {
		if _, err := utils.SaveFileWithTimestamp(h.uploadDir, header.Filename, data); err != nil {
			c.JSON(http.StatusInternalServerError, types.DataResponse{
				Status:  false,
				Message: err.Error(),
			})
			return
		}
	}

	result, err := h.rag.IngestDocument(c.Request.Context(), claims.ID, header.Filename, text)
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
				Source:          header.Filename,
				ChunksProcessed: processed,
			},
		})
		return
	}

	sendSuccess(c, types.IngestResponse{
		Status:          "success",
		Source:          header.Filename,
		ChunksProcessed: result.ChunksProcessed,
	})
}
