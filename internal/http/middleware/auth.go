package middleware

import (
	"net/http"
	"strings"

	"ludo_client/internal/service"

	"github.com/gin-gonic/gin"
)

const ViewerKey = "viewer"

// ViewerAuth requires a view token for roomID. Browsers' EventSource cannot
// set headers, so ?token= is accepted too. A nil service disables the check.
func ViewerAuth(tokens *service.TokenService, roomID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.Next()
			return
		}

		raw := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			raw = strings.TrimPrefix(h, "Bearer ")
		}
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		viewer, err := tokens.Parse(raw, roomID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ViewerKey, viewer.Name)
		c.Next()
	}
}
