package application

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email address has not been verified")

	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is a subtype of ErrInvalidToken: errors.Is(err,
	// ErrInvalidToken) holds for expired tokens too.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// PasswordPolicyError carries the full list of violated strength rules.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "password does not meet security requirements: " + strings.Join(e.Violations, "; ")
}

// AccountLockedError signals a lockout after too many failed attempts.
type AccountLockedError struct {
	LockedUntil time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is locked until %s", e.LockedUntil.Format(time.RFC3339))
}

// AccountNotActiveError signals a login attempt against a non-active account.
type AccountNotActiveError struct {
	Status entity.Status
}

func (e *AccountNotActiveError) Error() string {
	return fmt.Sprintf("account is not active: current status %s", e.Status)
}
