package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// IsAuthorized reports whether an email belongs to the admin allowlist.
// Comparison is case-insensitive; an empty allowlist authorizes nobody.
func IsAuthorized(email string, allowlist []string) bool {
	if email == "" {
		return false
	}
	for _, allowed := range allowlist {
		if strings.EqualFold(strings.TrimSpace(allowed), email) {
			return true
		}
	}
	return false
}

// RequireAdmin gates a route group on allowlist membership. It assumes the
// session middleware already ran.
func RequireAdmin(allowlist []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextEmail)
		if !IsAuthorized(email, allowlist) {
			c.AbortWithStatusJSON(403, gin.H{"error": gin.H{"kind": "FORBIDDEN", "message": "admin access required"}})
			return
		}
		c.Next()
	}
}
