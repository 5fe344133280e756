package application

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/finhub-saas/identity-service/internal/domain/event"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
	dsvc "github.com/finhub-saas/identity-service/internal/domain/service"
	"github.com/finhub-saas/identity-service/pkg/helpers"
)

// SearchIndex mirrors user snapshots into a search backend. Indexing is
// best-effort; a failure is logged, never surfaced.
type SearchIndex interface {
	IndexUser(ctx context.Context, u UserDTO) error
	SearchUsers(ctx context.Context, query string, size int) ([]map[string]any, error)
}

// Service orchestrates the identity use cases. Each method is logically
// sequential: given identical collaborator responses, the same command yields
// the same outcome. Collaborators are supplied at construction and the
// service holds no other mutable state.
type Service struct {
	Users    repository.UserRepository
	Tokens   repository.TokenRepository
	Hasher   PasswordHasher
	Mail     EmailSender
	Events   EventPublisher
	Search   SearchIndex // optional
	Policy   dsvc.PasswordPolicy
	TokenGen dsvc.TokenGenerator

	JWT       *helpers.JWTManager
	Redis     *redis.Client // session hashes; optional
	GCS       *storage.Client
	GCSBucket string

	Logger *logrus.Logger

	VerifyEmailURL   string
	ResetPasswordURL string
}

// publish dispatches a domain event and logs a failure without aborting the
// already-committed state change.
func (s *Service) publish(ctx context.Context, ev event.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event_type", ev.EventType()).Warn("event publish failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u UserDTO) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index failed")
	}
}

func (s *Service) logWarn(err error, msg string, fields logrus.Fields) {
	if err == nil || s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithFields(fields).Warn(msg)
}
