package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/utils"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1/"

var untrackedRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// routeEvent names a capture after the matched route, e.g.
// POST /api/v1/groups/:name/expenses becomes "post_groups_expenses".
// Path parameters are dropped so group names and ids never reach the event name.
func routeEvent(method, route string) string {
	route = strings.TrimPrefix(route, apiPrefix)
	parts := []string{strings.ToLower(method)}
	for _, seg := range strings.Split(route, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		parts = append(parts, strings.ReplaceAll(seg, "-", "_"))
	}
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, "_")
}

// PosthogMiddleware captures one event per successful authenticated request.
// It must run after AuthMiddleware so the owner is known.
func PosthogMiddleware(client *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !client.IsInitialized() || untrackedRoutes[c.FullPath()] {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		owner, ok := GetOwnerFromContext(c)
		if !ok {
			return
		}
		event := routeEvent(c.Request.Method, c.FullPath())
		if event == "" {
			return
		}

		client.Enqueue(owner, event, map[string]any{
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		})
	}
}

// PosthogEvent sends a named event for the caller. properties is not modified.
func PosthogEvent(c *gin.Context, client *utils.PosthogClientWrapper, event string, properties map[string]any) {
	if !client.IsInitialized() {
		return
	}
	owner, ok := GetOwnerFromContext(c)
	if !ok {
		return
	}

	props := make(map[string]any, len(properties)+1)
	for k, v := range properties {
		props[k] = v
	}
	props["route"] = c.FullPath()
	client.Enqueue(owner, event, props)
}
