package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is the type for values this package stores in request contexts.
type contextKey string

const (
	userIDKey = contextKey("userID")
	loggerKey = contextKey("logger")
)

// UserIDFromContext returns the authenticated user stored on a request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserIDFromContext reads the authenticated user from the gin context,
// falling back to the request context for handlers that rebuilt it.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	return UserIDFromContext(c.Request.Context())
}
