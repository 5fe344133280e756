package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user authorization role.
type Role string

const (
	RoleAnonymous  Role = "anonymous"
	RoleUser       Role = "user"
	RolePremium    Role = "premium"
	RoleSuperadmin Role = "superadmin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAnonymous, RoleUser, RolePremium, RoleSuperadmin:
		return true
	}
	return false
}

func (r Role) IsAuthenticated() bool { return r != RoleAnonymous }

func (r Role) IsPremium() bool { return r == RolePremium || r == RoleSuperadmin }

func (r Role) IsAdmin() bool { return r == RoleSuperadmin }

// Status is a user account status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusDeleted   Status = "deleted"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusDeleted:
		return true
	}
	return false
}

const (
	// MaxFailedLogins is the number of consecutive failed login attempts
	// after which the account is locked.
	MaxFailedLogins = 5
	// LockDuration is how long a lockout lasts.
	LockDuration = 30 * time.Minute
)

// User is the aggregate root for the identity domain. It owns its
// status/role/lockout state machine; the password hash is deliberately not a
// field here and lives in the user store.
type User struct {
	ID                  uuid.UUID
	TenantID            uuid.UUID
	Email               Email
	Role                Role
	Status              Status
	FirstName           string
	LastName            string
	AvatarURL           string
	IsEmailVerified     bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewUser creates a user in pending status. With no tenant given the user
// becomes its own tenant (single-user tenant signup).
func NewUser(email string, firstName, lastName string) (*User, error) {
	addr, err := NewEmail(email)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	id := uuid.New()
	return &User{
		ID:        id,
		TenantID:  id,
		Email:     addr,
		Role:      RoleUser,
		Status:    StatusPending,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// FullName falls back to whichever name part is set, then to the email.
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.LastName != "" {
		return u.LastName
	}
	return u.Email.String()
}

func (u *User) IsActive() bool { return u.Status == StatusActive }

// IsLocked is computed against the wall clock on every call; the lock state
// must never be cached.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().UTC().Before(*u.LockedUntil)
}

func (u *User) CanLogin() bool { return u.IsActive() && !u.IsLocked() }

// VerifyEmail marks the address verified and activates a pending account.
// Calling it again is a no-op apart from the timestamp bump; an active
// account never regresses to pending.
func (u *User) VerifyEmail() {
	u.IsEmailVerified = true
	if u.Status == StatusPending {
		u.Status = StatusActive
	}
	u.touch()
}

// RecordFailedLogin increments the failure counter and locks the account
// once the counter reaches MaxFailedLogins.
func (u *User) RecordFailedLogin() {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLogins {
		until := time.Now().UTC().Add(LockDuration)
		u.LockedUntil = &until
	}
	u.touch()
}

// RecordSuccessfulLogin clears failure state and stamps last_login_at.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.touch()
}

// Unlock is the administrative reset of the failure counter and lock.
func (u *User) Unlock() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.touch()
}

func (u *User) Suspend() {
	u.Status = StatusSuspended
	u.touch()
}

// Reactivate only takes effect from suspended.
func (u *User) Reactivate() {
	if u.Status == StatusSuspended {
		u.Status = StatusActive
		u.touch()
	}
}

// SoftDelete is terminal; orchestrators refuse further operations on a
// deleted user.
func (u *User) SoftDelete() {
	u.Status = StatusDeleted
	u.touch()
}

func (u *User) UpgradeToPremium() {
	if u.Role == RoleUser {
		u.Role = RolePremium
		u.touch()
	}
}

func (u *User) DowngradeToUser() {
	if u.Role == RolePremium {
		u.Role = RoleUser
		u.touch()
	}
}

func (u *User) touch() { u.UpdatedAt = time.Now().UTC() }
