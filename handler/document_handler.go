package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/cortex-be/database"
	"github.com/tieubaoca/cortex-be/types"
	"github.com/tieubaoca/cortex-be/utils"
)

type DocumentHandler struct {
	uploadDir string
	store     database.DocumentStore
}

func NewDocumentHandler(uploadDir string, store database.DocumentStore) *DocumentHandler {
	return &DocumentHandler{
		uploadDir: uploadDir,
		store:     store,
	}
}

// HandleServeDocument streams a previously uploaded file back to the client.
// Uploads are stored with a timestamp suffix, so the requested name has to
// be matched against the suffixed files on disk.
func (h *DocumentHandler) HandleServeDocument(c *gin.Context) {
	requestedName := c.Query("file")
	if requestedName == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "File parameter is required",
		})
		return
	}

	actualFile, err := h.findFileWithTimestamp(requestedName)
	if err != nil {
		c.JSON(http.StatusNotFound, types.DataResponse{
			Status:  false,
			Message: "File not found",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", requestedName))
	c.File(filepath.Join(h.uploadDir, actualFile))
}

// HandleDeleteDocument removes a document and all its sections. Admin only.
func (h *DocumentHandler) HandleDeleteDocument(c *gin.Context) {
	var req types.DeleteDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.OwnerID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	if err := h.store.DeleteDocument(c.Request.Context(), req.OwnerID, req.ID); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	sendSuccess(c, nil)
}

func (h *DocumentHandler) findFileWithTimestamp(requestedName string) (string, error) {
	files, err := os.ReadDir(h.uploadDir)
	if err != nil {
		return "", err
	}

	// Uploads are stored with sanitized names, so match on the same form.
	ext := filepath.Ext(requestedName)
	baseName := utils.SanitizeFileName(strings.TrimSuffix(requestedName, ext))
	for _, file := range files {
		name := file.Name()
		if filepath.Ext(name) != ext {
			continue
		}

		nameWithoutExt := strings.TrimSuffix(name, ext)
		if nameWithoutExt == baseName {
			return name, nil
		}
		lastUnderscoreIdx := strings.LastIndex(nameWithoutExt, "_")
		if lastUnderscoreIdx == -1 {
			continue
		}

		timestampPart := nameWithoutExt[lastUnderscoreIdx+1:]
		fileBaseName := nameWithoutExt[:lastUnderscoreIdx]
		if _, err := strconv.ParseInt(timestampPart, 10, 64); err == nil {
			if fileBaseName == baseName {
				return name, nil
			}
		}
	}

	return "", fmt.Errorf("file not found: %s", requestedName)
}
