package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "user_id"
	userRoleKey = "user_role"

	RoleCurator = "curator"
)

// Identity reads the caller identity from the X-User-ID and X-User-Role
// headers set by the upstream gateway and stores it on the request context.
// Requests without an identity are rejected.
func Identity(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "X-User-ID header is required",
		})
		return
	}
	c.Set(userIDKey, userID)
	c.Set(userRoleKey, c.GetHeader("X-User-Role"))
	c.Next()
}

// RequireCurator gates curator-only routes.
func RequireCurator(c *gin.Context) {
	if c.GetString(userRoleKey) != RoleCurator {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"status": "error",
			"error":  "curator role required",
		})
		return
	}
	c.Next()
}

// UserID returns the authenticated caller's ID.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
