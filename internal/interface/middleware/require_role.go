package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/pkg/response"
)

// RequireAdmin allows only superadmin sessions through. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.Role(c.GetString(CtxUserRoleKey))
		if !role.IsAdmin() {
			response.Error(c, http.StatusForbidden, "admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
