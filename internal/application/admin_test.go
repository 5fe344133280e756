package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/internal/domain/event"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
)

func TestUnlockUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	dto := env.activate(ctx, "alice@example.com")
	for i := 0; i < entity.MaxFailedLogins; i++ {
		_, _ = env.svc.Login(ctx, LoginCommand{Email: "alice@example.com", Password: "wrong"})
	}
	actor := uuid.New()

	got, err := env.svc.UnlockUser(ctx, dto.ID, actor)
	require.NoError(t, err)
	assert.False(t, got.IsLocked)

	ev := env.events.last()
	require.IsType(t, event.UserAccountUnlocked{}, ev)
	require.NotNil(t, ev.(event.UserAccountUnlocked).UnlockedBy)
	assert.Equal(t, actor, *ev.(event.UserAccountUnlocked).UnlockedBy)

	// Login works again immediately.
	_, err = env.svc.Login(ctx, LoginCommand{Email: "alice@example.com", Password: strongPassword})
	assert.NoError(t, err)
}

func TestSuspendAndReactivateUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	dto := env.activate(ctx, "alice@example.com")

	got, err := env.svc.SuspendUser(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusSuspended), got.Status)

	got, err = env.svc.ReactivateUser(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusActive), got.Status)
}

func TestSetPremium(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	dto := env.activate(ctx, "alice@example.com")
	actor := uuid.New()

	got, err := env.svc.SetPremium(ctx, dto.ID, true, actor)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RolePremium), got.Role)

	ev := env.events.last()
	require.IsType(t, event.UserRoleChanged{}, ev)
	rc := ev.(event.UserRoleChanged)
	assert.Equal(t, string(entity.RoleUser), rc.OldRole)
	assert.Equal(t, string(entity.RolePremium), rc.NewRole)

	// Setting premium again is a no-op and publishes nothing new.
	eventsBefore := len(env.events.types())
	got, err = env.svc.SetPremium(ctx, dto.ID, true, actor)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RolePremium), got.Role)
	assert.Len(t, env.events.types(), eventsBefore)

	got, err = env.svc.SetPremium(ctx, dto.ID, false, actor)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleUser), got.Role)
}

func TestSoftDeleteUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	dto := env.activate(ctx, "alice@example.com")

	require.NoError(t, env.svc.SoftDeleteUser(ctx, dto.ID))

	ev := env.events.last()
	require.IsType(t, event.UserDeleted{}, ev)
	assert.Equal(t, event.DeletionSoft, ev.(event.UserDeleted).DeletionType)

	// The row remains but the account is gone from the API's point of view.
	u, err := env.users.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeleted, u.Status)
	_, err = env.svc.GetProfile(ctx, dto.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Deleted is terminal: admin mutations refuse it too.
	_, err = env.svc.SuspendUser(ctx, dto.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestHardDeleteUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	dto := env.activate(ctx, "alice@example.com")

	require.NoError(t, env.svc.HardDeleteUser(ctx, dto.ID))

	ev := env.events.last()
	require.IsType(t, event.UserDeleted{}, ev)
	assert.Equal(t, event.DeletionHard, ev.(event.UserDeleted).DeletionType)

	_, err := env.users.GetByID(ctx, dto.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdminOpsUnknownUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	id := uuid.New()

	_, err := env.svc.UnlockUser(ctx, id, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = env.svc.SuspendUser(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, env.svc.SoftDeleteUser(ctx, id), ErrUserNotFound)
	assert.ErrorIs(t, env.svc.HardDeleteUser(ctx, id), ErrUserNotFound)
}

func TestSearchUsersWithoutIndex(t *testing.T) {
	env := newTestEnv()
	hits, err := env.svc.SearchUsers(context.Background(), "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
