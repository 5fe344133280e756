// Package event defines the closed set of domain events published by the
// identity service. Event names follow the accounts.user.<action> convention.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event variant.
type Event interface {
	EventType() string
}

type UserCreated struct {
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (UserCreated) EventType() string { return "accounts.user.created" }

type UserEmailVerified struct {
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
}

func (UserEmailVerified) EventType() string { return "accounts.user.email_verified" }

type UserLoggedIn struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	UserID    uuid.UUID `json:"user_id"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

func (UserLoggedIn) EventType() string { return "accounts.user.logged_in" }

type UserLoggedOut struct {
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
}

func (UserLoggedOut) EventType() string { return "accounts.user.logged_out" }

type UserLoginFailed struct {
	Email     string `json:"email"`
	IPAddress string `json:"ip_address,omitempty"`
	Reason    string `json:"reason"`
}

func (UserLoginFailed) EventType() string { return "accounts.user.login_failed" }

type UserAccountLocked struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	UserID      uuid.UUID `json:"user_id"`
	LockedUntil time.Time `json:"locked_until"`
	Reason      string    `json:"reason"`
}

func (UserAccountLocked) EventType() string { return "accounts.user.account_locked" }

type UserAccountUnlocked struct {
	TenantID   uuid.UUID  `json:"tenant_id"`
	UserID     uuid.UUID  `json:"user_id"`
	UnlockedBy *uuid.UUID `json:"unlocked_by,omitempty"` // nil when automatic
}

func (UserAccountUnlocked) EventType() string { return "accounts.user.account_unlocked" }

// Values for UserPasswordChanged.ChangedVia.
const (
	ChangedViaUserAction = "user_action"
	ChangedViaResetToken = "reset_token"
	ChangedViaAdmin      = "admin"
)

type UserPasswordChanged struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	UserID     uuid.UUID `json:"user_id"`
	ChangedVia string    `json:"changed_via"`
}

func (UserPasswordChanged) EventType() string { return "accounts.user.password_changed" }

type UserPasswordResetRequested struct {
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
}

func (UserPasswordResetRequested) EventType() string {
	return "accounts.user.password_reset_requested"
}

type UserProfileUpdated struct {
	TenantID      uuid.UUID `json:"tenant_id"`
	UserID        uuid.UUID `json:"user_id"`
	UpdatedFields []string  `json:"updated_fields"`
}

func (UserProfileUpdated) EventType() string { return "accounts.user.profile_updated" }

type UserRoleChanged struct {
	TenantID  uuid.UUID  `json:"tenant_id"`
	UserID    uuid.UUID  `json:"user_id"`
	OldRole   string     `json:"old_role"`
	NewRole   string     `json:"new_role"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"`
}

func (UserRoleChanged) EventType() string { return "accounts.user.role_changed" }

// Values for UserDeleted.DeletionType.
const (
	DeletionSoft = "soft"
	DeletionHard = "hard"
)

type UserDeleted struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	UserID       uuid.UUID `json:"user_id"`
	DeletionType string    `json:"deletion_type"`
}

func (UserDeleted) EventType() string { return "accounts.user.deleted" }
