package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser("alice@example.com", "Alice", "Smith")
	require.NoError(t, err)
	return u
}

func TestNewUser(t *testing.T) {
	u := newTestUser(t)

	assert.Equal(t, StatusPending, u.Status)
	assert.Equal(t, RoleUser, u.Role)
	assert.False(t, u.IsEmailVerified)
	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
	// A self-registered user is its own tenant.
	assert.Equal(t, u.ID, u.TenantID)
}

func TestNewUserInvalidEmail(t *testing.T) {
	_, err := NewUser("not-an-email", "Alice", "Smith")
	assert.Error(t, err)
}

func TestFullName(t *testing.T) {
	u := newTestUser(t)
	assert.Equal(t, "Alice Smith", u.FullName())

	u.LastName = ""
	assert.Equal(t, "Alice", u.FullName())

	u.FirstName = ""
	u.LastName = "Smith"
	assert.Equal(t, "Smith", u.FullName())

	u.LastName = ""
	assert.Equal(t, "alice@example.com", u.FullName())
}

func TestVerifyEmailActivatesPending(t *testing.T) {
	u := newTestUser(t)

	u.VerifyEmail()
	assert.True(t, u.IsEmailVerified)
	assert.Equal(t, StatusActive, u.Status)

	// Re-verifying never regresses the account.
	u.VerifyEmail()
	assert.Equal(t, StatusActive, u.Status)
	assert.True(t, u.IsEmailVerified)
}

func TestVerifyEmailDoesNotResurrectSuspended(t *testing.T) {
	u := newTestUser(t)
	u.VerifyEmail()
	u.Suspend()

	u.VerifyEmail()
	assert.Equal(t, StatusSuspended, u.Status)
}

func TestRecordFailedLoginLocksAtThreshold(t *testing.T) {
	u := newTestUser(t)
	u.VerifyEmail()

	for i := 0; i < MaxFailedLogins-1; i++ {
		u.RecordFailedLogin()
		assert.False(t, u.IsLocked(), "attempt %d should not lock", i+1)
	}

	u.RecordFailedLogin()
	require.True(t, u.IsLocked())
	require.NotNil(t, u.LockedUntil)
	assert.Equal(t, MaxFailedLogins, u.FailedLoginAttempts)
	assert.WithinDuration(t, time.Now().UTC().Add(LockDuration), *u.LockedUntil, 5*time.Second)
	assert.False(t, u.CanLogin())
}

func TestLockExpires(t *testing.T) {
	u := newTestUser(t)
	u.VerifyEmail()
	past := time.Now().UTC().Add(-time.Minute)
	u.LockedUntil = &past

	assert.False(t, u.IsLocked())
	assert.True(t, u.CanLogin())
}

func TestRecordSuccessfulLoginResetsFailureState(t *testing.T) {
	u := newTestUser(t)
	u.VerifyEmail()
	for i := 0; i < MaxFailedLogins; i++ {
		u.RecordFailedLogin()
	}
	require.True(t, u.IsLocked())

	u.RecordSuccessfulLogin()
	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
	require.NotNil(t, u.LastLoginAt)
	assert.WithinDuration(t, time.Now().UTC(), *u.LastLoginAt, 5*time.Second)
}

func TestUnlock(t *testing.T) {
	u := newTestUser(t)
	u.VerifyEmail()
	for i := 0; i < MaxFailedLogins; i++ {
		u.RecordFailedLogin()
	}
	require.True(t, u.IsLocked())

	u.Unlock()
	assert.False(t, u.IsLocked())
	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LastLoginAt)
}

func TestSuspendAndReactivate(t *testing.T) {
	u := newTestUser(t)
	u.VerifyEmail()

	u.Suspend()
	assert.Equal(t, StatusSuspended, u.Status)
	assert.False(t, u.CanLogin())

	u.Reactivate()
	assert.Equal(t, StatusActive, u.Status)
	assert.True(t, u.CanLogin())
}

func TestReactivateOnlyFromSuspended(t *testing.T) {
	u := newTestUser(t)
	u.Reactivate()
	assert.Equal(t, StatusPending, u.Status)

	u.SoftDelete()
	u.Reactivate()
	assert.Equal(t, StatusDeleted, u.Status)
}

func TestSoftDeleteIsTerminal(t *testing.T) {
	u := newTestUser(t)
	u.VerifyEmail()
	u.SoftDelete()

	assert.Equal(t, StatusDeleted, u.Status)
	assert.False(t, u.IsActive())
	assert.False(t, u.CanLogin())
}

func TestRoleTransitions(t *testing.T) {
	u := newTestUser(t)

	u.UpgradeToPremium()
	assert.Equal(t, RolePremium, u.Role)

	// Already premium: no-op
	u.UpgradeToPremium()
	assert.Equal(t, RolePremium, u.Role)

	u.DowngradeToUser()
	assert.Equal(t, RoleUser, u.Role)

	// Superadmin is never reachable or changeable through this pair.
	u.Role = RoleSuperadmin
	u.UpgradeToPremium()
	assert.Equal(t, RoleSuperadmin, u.Role)
	u.DowngradeToUser()
	assert.Equal(t, RoleSuperadmin, u.Role)
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.False(t, Role("nope").IsValid())

	assert.False(t, RoleAnonymous.IsAuthenticated())
	assert.True(t, RoleUser.IsAuthenticated())

	assert.True(t, RolePremium.IsPremium())
	assert.True(t, RoleSuperadmin.IsPremium())
	assert.False(t, RoleUser.IsPremium())

	assert.True(t, RoleSuperadmin.IsAdmin())
	assert.False(t, RolePremium.IsAdmin())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusActive, StatusSuspended, StatusDeleted} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Status("archived").IsValid())
}
