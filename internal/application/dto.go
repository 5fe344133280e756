package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
)

// UserDTO is the immutable snapshot returned to callers; the mutable
// aggregate never leaves the application layer.
type UserDTO struct {
	ID              uuid.UUID  `json:"id"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	FullName        string     `json:"full_name"`
	AvatarURL       string     `json:"avatar_url,omitempty"`
	IsEmailVerified bool       `json:"is_email_verified"`
	IsActive        bool       `json:"is_active"`
	IsLocked        bool       `json:"is_locked"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// AuthTokensDTO is the shape expected from the session issuance collaborator.
type AuthTokensDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // access token lifetime in seconds
}

// LoginResultDTO bundles the user snapshot with freshly issued tokens.
type LoginResultDTO struct {
	User   UserDTO       `json:"user"`
	Tokens AuthTokensDTO `json:"tokens"`
}

type RegisterUserCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type VerifyEmailCommand struct {
	Token string
}

type RequestPasswordResetCommand struct {
	Email string
}

type ResetPasswordCommand struct {
	Token       string
	NewPassword string
}

type ChangePasswordCommand struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// UpdateProfileCommand applies only the fields that are non-nil.
type UpdateProfileCommand struct {
	UserID    uuid.UUID
	FirstName *string
	LastName  *string
	AvatarURL *string
}

type LoginCommand struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

func toUserDTO(u *entity.User) UserDTO {
	return UserDTO{
		ID:              u.ID,
		TenantID:        u.TenantID,
		Email:           u.Email.String(),
		Role:            string(u.Role),
		Status:          string(u.Status),
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        u.FullName(),
		AvatarURL:       u.AvatarURL,
		IsEmailVerified: u.IsEmailVerified,
		IsActive:        u.IsActive(),
		IsLocked:        u.IsLocked(),
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
