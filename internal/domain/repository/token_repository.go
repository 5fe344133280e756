package repository

import (
	"context"
	"errors"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
)

// ErrTokenNotFound is returned when an opaque token string does not resolve,
// either because it never existed, expired out of storage, or was already
// consumed.
var ErrTokenNotFound = errors.New("token not found")

// TokenRepository stores single-use verification and reset tokens keyed by
// their opaque token string. Consume must be atomic per token: fetch and
// delete in one step, so that of two concurrent consumers exactly one sees
// the token.
type TokenRepository interface {
	SaveVerificationToken(ctx context.Context, t entity.EmailVerificationToken) error
	ConsumeVerificationToken(ctx context.Context, token string) (entity.EmailVerificationToken, error)

	SavePasswordResetToken(ctx context.Context, t entity.PasswordResetToken) error
	ConsumePasswordResetToken(ctx context.Context, token string) (entity.PasswordResetToken, error)
}
