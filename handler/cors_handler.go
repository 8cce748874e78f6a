package handler

import (
	"github.com/gin-gonic/gin"
)

// CorsHandler reflects a request's Origin header back when it is on the
// configured allow list. A list containing "*" (the default) allows every
// origin.
type CorsHandler struct {
	allowAll bool
	allowed  map[string]bool
}

func NewCorsHandler(allowedOrigins []string) *CorsHandler {
	h := &CorsHandler{
		allowed: make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			h.allowAll = true
			continue
		}
		h.allowed[origin] = true
	}
	return h
}

func (h *CorsHandler) CorsMiddleware(c *gin.Context) {
	origin := c.GetHeader("Origin")
	switch {
	case h.allowAll:
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	case h.allowed[origin]:
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Add("Vary", "Origin")
	}
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(200)
		return
	}
	c.Next()
}
