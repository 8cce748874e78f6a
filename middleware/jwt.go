package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/cortex-be/types"
	"github.com/tieubaoca/cortex-be/utils"
)

const userContextKey = "user"

// AuthMiddleware rejects requests without a valid bearer token and puts the
// parsed claims into the gin context. The core pipeline only ever sees the
// resulting user id.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			return
		}
		c.Set(userContextKey, claims)
		c.Next()
	}
}

// AdminAuthMiddleware additionally requires the admin role.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			return
		}
		if claims.Role != types.USER_ROLE_ADMIN {
			c.AbortWithStatusJSON(http.StatusForbidden, types.DataResponse{
				Status:  false,
				Message: "Admin role required",
			})
			return
		}
		c.Set(userContextKey, claims)
		c.Next()
	}
}

// UserFromContext returns the claims stored by the auth middleware.
func UserFromContext(c *gin.Context) (*utils.UserClaims, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.UserClaims)
	return claims, ok
}

func parseBearer(c *gin.Context) (*utils.UserClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Authorization header is required",
		})
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Authorization header format must be Bearer {token}",
		})
		return nil, false
	}

	claims, err := utils.ParseUserToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Invalid token",
		})
		return nil, false
	}
	return claims, true
}
