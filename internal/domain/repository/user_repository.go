package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by Save when the storage-level uniqueness
	// backstop rejects a duplicate email.
	ErrEmailTaken = errors.New("email already taken")
)

// UserRepository persists the User aggregate. Save is an upsert and must be
// safe against concurrent writers for the same user; Mutate serializes a
// read-modify-write cycle per user so counters such as failed login attempts
// are always computed against a fresh row.
//
// The password hash never travels on the aggregate; it has its own accessors.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, u *entity.User) (*entity.User, error)
	// Mutate loads the user under a row lock, applies fn, and persists the
	// result in the same transaction. fn returning an error aborts without
	// writing.
	Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.User) error) (*entity.User, error)
	// Delete removes the row entirely (hard delete, distinct from the soft
	// deleted status).
	Delete(ctx context.Context, id uuid.UUID) error

	GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}
