package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finhub-saas/identity-service/internal/container"
	handlers "github.com/finhub-saas/identity-service/internal/interface/http"
	"github.com/finhub-saas/identity-service/internal/interface/middleware"
)

// UserModule wires the self-service profile routes.
// All routes require an authenticated session.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), container.GetJWT()))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PATCH("/profile", m.Handler.UpdateProfile)
		auth.POST("/profile/avatar", m.Handler.UploadAvatar)
		auth.POST("/profile/password", m.Handler.ChangePassword)
	}
}
