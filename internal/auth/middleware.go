// Package auth guards the operational cron endpoints with a shared
// bearer secret.
package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireCronSecret is a middleware that ensures the request carries the
// scheduler's bearer secret. An empty configured secret rejects everything
// rather than failing open.
func RequireCronSecret(secret string) gin.HandlerFunc {
	expected := "Bearer " + secret

	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "cron secret not configured"})
			return
		}

		header := c.GetHeader("Authorization")
		if subtle.ConstantTimeCompare([]byte(header), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
