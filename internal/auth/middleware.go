package auth

import (
	"strings"

	"codeberg.org/handbookqa/server/internal/errors"
	"github.com/gin-gonic/gin"
)

const contextKeyCompanyID = "company_id"

// validates JWT tokens and adds the company id to the context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := ValidateJWT(secret, parts[1])
		if err != nil {
			errors.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(contextKeyCompanyID, claims.CompanyID)

		c.Next()
	}
}

// extracts company_id from context after AuthMiddleware
func GetCompanyID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(contextKeyCompanyID)
	if !exists {
		return 0, false
	}

	id, ok := v.(int64)
	return id, ok
}
