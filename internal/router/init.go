package router

import (
	userapp "github.com/finhub-saas/identity-service/internal/application"
	"github.com/finhub-saas/identity-service/internal/container"
	dsvc "github.com/finhub-saas/identity-service/internal/domain/service"
	"github.com/finhub-saas/identity-service/internal/infrastructure/hash"
	"github.com/finhub-saas/identity-service/internal/infrastructure/messaging"
	pginfra "github.com/finhub-saas/identity-service/internal/infrastructure/postgres"
	"github.com/finhub-saas/identity-service/internal/infrastructure/redisstore"
	"github.com/finhub-saas/identity-service/internal/infrastructure/search"
	handlers "github.com/finhub-saas/identity-service/internal/interface/http"
	"github.com/finhub-saas/identity-service/internal/router/modules"
)

func buildService() *userapp.Service {
	cfg := container.GetConfig()

	svc := &userapp.Service{
		Users:    pginfra.NewUserRepository(container.GetPGPool()),
		Tokens:   redisstore.NewTokenRepository(container.GetRedis()),
		Hasher:   hash.NewBcryptHasher(),
		Mail:     messaging.NewQueueEmailSender(container.GetEmailPub(), cfg.AppName, cfg.MailSendEnabled),
		Policy:   dsvc.DefaultPasswordPolicy(),
		TokenGen: dsvc.TokenGenerator{},

		JWT:       container.GetJWT(),
		Redis:     container.GetRedis(),
		GCS:       container.GetGCS(),
		GCSBucket: cfg.GCSBucket,

		Logger: container.GetLogger(),

		VerifyEmailURL:   cfg.VerifyEmailURL,
		ResetPasswordURL: cfg.ResetPasswordURL,
	}
	if pub := container.GetEventPub(); pub != nil {
		svc.Events = messaging.NewRabbitEventPublisher(pub)
	}
	if es := container.GetES(); es != nil {
		svc.Search = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	return svc
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := buildService()

	authHandler := handlers.NewAuthHandler(svc, container.GetJWT(), container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(svc, container.GetLogger())
	adminHandler := handlers.NewAdminHandler(svc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewAdminModule(adminHandler))
}
