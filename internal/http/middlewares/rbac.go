package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route on the resolved identity's role. It runs after
// RequireAuth, so a missing identity here is a wiring bug and still reads as
// unauthorized rather than leaking anything.
func (m *AuthMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			abortUnauthorized(c, "Missing identity context")
			return
		}
		if role != required {
			m.record(c, "forbidden")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": fmt.Sprintf("%s role required", required),
				},
			})
			return
		}
		c.Next()
	}
}
