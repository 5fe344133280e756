package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
)

func newTestRepo(t *testing.T) (*TokenRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTokenRepository(rdb), mr
}

func TestVerificationTokenRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	vt := entity.EmailVerificationToken{
		Token:     "tok-abc",
		UserID:    uuid.New(),
		Email:     "alice@example.com",
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.SaveVerificationToken(ctx, vt))

	got, err := repo.ConsumeVerificationToken(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, vt.UserID, got.UserID)
	assert.Equal(t, vt.Email, got.Email)
	assert.True(t, vt.ExpiresAt.Equal(got.ExpiresAt))
}

func TestConsumeIsSingleUse(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	vt := entity.EmailVerificationToken{
		Token:     "tok-once",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, repo.SaveVerificationToken(ctx, vt))

	_, err := repo.ConsumeVerificationToken(ctx, "tok-once")
	require.NoError(t, err)

	_, err = repo.ConsumeVerificationToken(ctx, "tok-once")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestConsumeUnknownToken(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.ConsumeVerificationToken(context.Background(), "never-existed")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)

	_, err = repo.ConsumePasswordResetToken(context.Background(), "never-existed")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestExpiredTokenStaysReadableWithinRetention(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	// Stored with an expiry in the near future, then the clock moves past it.
	vt := entity.EmailVerificationToken{
		Token:     "tok-exp",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().UTC().Add(time.Minute),
	}
	require.NoError(t, repo.SaveVerificationToken(ctx, vt))
	mr.FastForward(2 * time.Minute)

	// Inside the retention window the token is still consumable, so the
	// caller can tell expired from never-existed.
	got, err := repo.ConsumeVerificationToken(ctx, "tok-exp")
	require.NoError(t, err)
	assert.True(t, got.IsExpired())
}

func TestTokenGoneAfterRetention(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	vt := entity.PasswordResetToken{
		Token:     "tok-old",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().UTC().Add(time.Minute),
	}
	require.NoError(t, repo.SavePasswordResetToken(ctx, vt))
	mr.FastForward(2*time.Minute + expiredRetention)

	_, err := repo.ConsumePasswordResetToken(ctx, "tok-old")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestResetTokenRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	rt := entity.PasswordResetToken{
		Token:     "tok-reset",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().UTC().Add(time.Hour).Truncate(time.Second),
	}
	require.NoError(t, repo.SavePasswordResetToken(ctx, rt))

	got, err := repo.ConsumePasswordResetToken(ctx, "tok-reset")
	require.NoError(t, err)
	assert.Equal(t, rt.UserID, got.UserID)
}

func TestVerificationAndResetKeysAreDistinct(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveVerificationToken(ctx, entity.EmailVerificationToken{
		Token:     "same-token",
		UserID:    uuid.New(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}))

	// The same opaque string in the reset namespace does not resolve.
	_, err := repo.ConsumePasswordResetToken(ctx, "same-token")
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}
