package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/cortex-be/types"
)

// statusForError maps the error taxonomy onto HTTP statuses. Anything not
// recognized is a server-side failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrEmptyContent),
		errors.Is(err, types.ErrExtraction),
		errors.Is(err, types.ErrFetch),
		errors.Is(err, types.ErrInvalidChunking):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func sendError(c *gin.Context, err error) {
	c.JSON(statusForError(err), types.DataResponse{
		Status:  false,
		Message: err.Error(),
	})
}

func sendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   data,
	})
}
