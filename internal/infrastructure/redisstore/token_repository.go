package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
)

func verifyKey(token string) string { return "email:verify:token:" + token }
func resetKey(token string) string  { return "pwd:reset:token:" + token }

// expiredRetention keeps a token readable for a while past its expiry so an
// expired token is reported as expired (and deleted on that read) rather
// than indistinguishable from one that never existed.
const expiredRetention = 24 * time.Hour

// TokenRepository stores verification and reset tokens in Redis, keyed by
// the opaque token string. Consume* use GETDEL, so read-plus-delete is
// atomic per token and a concurrent duplicate request observes absence.
type TokenRepository struct {
	rdb *redis.Client
}

func NewTokenRepository(rdb *redis.Client) *TokenRepository {
	return &TokenRepository{rdb: rdb}
}

func (r *TokenRepository) SaveVerificationToken(ctx context.Context, t entity.EmailVerificationToken) error {
	return r.save(ctx, verifyKey(t.Token), t, t.ExpiresAt)
}

func (r *TokenRepository) ConsumeVerificationToken(ctx context.Context, token string) (entity.EmailVerificationToken, error) {
	var t entity.EmailVerificationToken
	err := r.consume(ctx, verifyKey(token), &t)
	return t, err
}

func (r *TokenRepository) SavePasswordResetToken(ctx context.Context, t entity.PasswordResetToken) error {
	return r.save(ctx, resetKey(t.Token), t, t.ExpiresAt)
}

func (r *TokenRepository) ConsumePasswordResetToken(ctx context.Context, token string) (entity.PasswordResetToken, error) {
	var t entity.PasswordResetToken
	err := r.consume(ctx, resetKey(token), &t)
	return t, err
}

func (r *TokenRepository) save(ctx context.Context, key string, value any, expiresAt time.Time) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ttl := time.Until(expiresAt) + expiredRetention
	return r.rdb.Set(ctx, key, b, ttl).Err()
}

func (r *TokenRepository) consume(ctx context.Context, key string, dest any) error {
	b, err := r.rdb.GetDel(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return repository.ErrTokenNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
