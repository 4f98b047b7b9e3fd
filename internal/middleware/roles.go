package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin      = "admin"
	RoleAccountant = "accountant"
)

// RequireRoles aborts with 403 unless the authenticated role is one of roles.
// Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		role := strings.ToLower(GetRoleFromContext(c))
		if _, ok := allowed[role]; !ok {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role not permitted", slog.String("role", role))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
