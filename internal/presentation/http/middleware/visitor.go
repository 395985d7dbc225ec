package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// VisitorHeader carries the caller's self-assigned visitor id.
	VisitorHeader = "X-Visitor-Id"

	visitorContextKey = "visitorID"

	// AnonymousVisitor is used when the widget sends no id at all.
	AnonymousVisitor = "anonymous"
)

// VisitorMiddleware extracts the visitor id header into the request context.
// Callers without the header are treated as a single shared anonymous
// visitor.
func VisitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		visitorID := c.GetHeader(VisitorHeader)
		if visitorID == "" {
			visitorID = AnonymousVisitor
		}
		c.Set(visitorContextKey, visitorID)
		c.Next()
	}
}

// GetVisitorID returns the visitor id placed in the context by
// VisitorMiddleware.
func GetVisitorID(c *gin.Context) string {
	if id, exists := c.Get(visitorContextKey); exists {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return AnonymousVisitor
}
