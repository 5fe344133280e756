package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, tenant_id, email, first_name, last_name, avatar_url,
	role, status, is_email_verified, failed_login_attempts,
	locked_until, last_login_at, created_at, updated_at`

// UserRepository is the pgx-backed user store. Per-user write serialization
// is provided by Mutate, which re-reads the row under FOR UPDATE before
// applying the change.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		u     entity.User
		email string
	)
	err := row.Scan(
		&u.ID, &u.TenantID, &email, &u.FirstName, &u.LastName, &u.AvatarURL,
		&u.Role, &u.Status, &u.IsEmailVerified, &u.FailedLoginAttempts,
		&u.LockedUntil, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	addr, err := entity.NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("stored email invalid: %w", err)
	}
	u.Email = addr
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&exists)
	return exists, err
}

// Save upserts the aggregate. The password hash column is untouched here;
// credential storage has its own accessors.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (
			id, tenant_id, email, first_name, last_name, avatar_url,
			role, status, is_email_verified, failed_login_attempts,
			locked_until, last_login_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			avatar_url = EXCLUDED.avatar_url,
			role = EXCLUDED.role,
			status = EXCLUDED.status,
			is_email_verified = EXCLUDED.is_email_verified,
			failed_login_attempts = EXCLUDED.failed_login_attempts,
			locked_until = EXCLUDED.locked_until,
			last_login_at = EXCLUDED.last_login_at,
			updated_at = EXCLUDED.updated_at
		RETURNING `+userColumns,
		u.ID, u.TenantID, u.Email.String(), u.FirstName, u.LastName, u.AvatarURL,
		u.Role, u.Status, u.IsEmailVerified, u.FailedLoginAttempts,
		u.LockedUntil, u.LastLoginAt, u.CreatedAt, u.UpdatedAt,
	)
	saved, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, repository.ErrEmailTaken
		}
		return nil, err
	}
	return saved, nil
}

// Mutate loads the row FOR UPDATE, applies fn and writes the result back in
// one transaction. Concurrent mutations of the same user serialize on the
// row lock, so counters are always computed against fresh state.
func (r *UserRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*entity.User) error) (*entity.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}

	if err := fn(u); err != nil {
		return nil, err
	}
	u.UpdatedAt = time.Now().UTC()

	_, err = tx.Exec(ctx, `
		UPDATE users SET
			email = $2, first_name = $3, last_name = $4, avatar_url = $5,
			role = $6, status = $7, is_email_verified = $8,
			failed_login_attempts = $9, locked_until = $10,
			last_login_at = $11, updated_at = $12
		WHERE id = $1`,
		u.ID, u.Email.String(), u.FirstName, u.LastName, u.AvatarURL,
		u.Role, u.Status, u.IsEmailVerified,
		u.FailedLoginAttempts, u.LockedUntil,
		u.LastLoginAt, u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, id).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	return hash, err
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	res, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
