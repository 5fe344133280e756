package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerificationToken is a single-use credential for confirming an email
// address. It references the user by id; the token store owns it.
type EmailVerificationToken struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (t EmailVerificationToken) IsExpired() bool {
	return time.Now().UTC().After(t.ExpiresAt)
}

// PasswordResetToken is a single-use credential for resetting a password.
type PasswordResetToken struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (t PasswordResetToken) IsExpired() bool {
	return time.Now().UTC().After(t.ExpiresAt)
}
