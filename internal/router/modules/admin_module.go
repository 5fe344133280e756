package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finhub-saas/identity-service/internal/container"
	handlers "github.com/finhub-saas/identity-service/internal/interface/http"
	"github.com/finhub-saas/identity-service/internal/interface/middleware"
)

// AdminModule wires the superadmin account-management routes.
type AdminModule struct {
	Handler *handlers.AdminHandler
}

func NewAdminModule(h *handlers.AdminHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), container.GetJWT()))
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		admin.POST("/users/:id/unlock", m.Handler.Unlock)
		admin.POST("/users/:id/suspend", m.Handler.Suspend)
		admin.POST("/users/:id/reactivate", m.Handler.Reactivate)
		admin.POST("/users/:id/premium", m.Handler.SetPremium)
		admin.DELETE("/users/:id", m.Handler.Delete)
		admin.GET("/users/search", m.Handler.Search)
	}
}
