package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ownerKey is the key used to store the authenticated identity's email.
const (
	ownerKey     = contextKey("owner")
	sessionIDKey = contextKey("sessionID")
)

// WithOwner returns a copy of ctx carrying the authenticated owner and session.
func WithOwner(ctx context.Context, owner, sessionID string) context.Context {
	ctx = context.WithValue(ctx, ownerKey, owner)
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// OwnerFromCtx retrieves the authenticated owner from a standard context.
func OwnerFromCtx(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey).(string)
	return owner, ok && owner != ""
}

// GetOwnerFromContext retrieves the authenticated owner from the Gin context.
// It returns the owner and a boolean indicating if it was found.
func GetOwnerFromContext(c *gin.Context) (string, bool) {
	if val, exists := c.Get(string(ownerKey)); exists {
		owner, ok := val.(string)
		return owner, ok && owner != ""
	}
	// check in the request context as well
	return OwnerFromCtx(c.Request.Context())
}

// GetSessionIDFromContext returns the session the request was authenticated with.
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	if val, exists := c.Get(string(sessionIDKey)); exists {
		id, ok := val.(string)
		return id, ok && id != ""
	}
	id, ok := c.Request.Context().Value(sessionIDKey).(string)
	return id, ok && id != ""
}
