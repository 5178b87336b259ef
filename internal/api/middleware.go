package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saasradar/saasradar/internal/authhelp"
)

// APIKeyMiddleware guards the API group with a shared password checked
// against a bcrypt hash. An empty hash leaves the API open, which is
// the single-user default.
func APIKeyMiddleware(passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if passwordHash == "" {
			c.Next()
			return
		}

		key := c.GetHeader("Authorization")
		key = strings.TrimPrefix(key, "Bearer ")
		if key == "" {
			key = c.Query("api_key")
		}

		if key == "" || !authhelp.CheckPasswordHash(passwordHash, key) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
