package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/zenith/pkg/auth"
	"github.com/d60-Lab/zenith/pkg/response"
)

// RequireAuth 校验 Bearer token；secret 为空时不做校验
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "Missing bearer token")
			return
		}
		claims, err := auth.ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			return
		}
		c.Set("editor", claims.Subject)
		c.Next()
	}
}
