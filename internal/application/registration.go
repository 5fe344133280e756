package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/internal/domain/event"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
)

const (
	// VerificationTokenTTL is how long an email verification link stays valid.
	VerificationTokenTTL = 24 * time.Hour
)

// Register creates a new pending user, stores a verification token and
// enqueues the verification mail. The email uniqueness check is advisory;
// the user store enforces uniqueness as a consistency backstop.
func (s *Service) Register(ctx context.Context, cmd RegisterUserCommand) (UserDTO, error) {
	if violations := s.Policy.Validate(cmd.Password); len(violations) > 0 {
		return UserDTO{}, &PasswordPolicyError{Violations: violations}
	}

	taken, err := s.Users.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		return UserDTO{}, fmt.Errorf("check email uniqueness: %w", err)
	}
	if taken {
		return UserDTO{}, ErrEmailAlreadyExists
	}

	u, err := entity.NewUser(cmd.Email, cmd.FirstName, cmd.LastName)
	if err != nil {
		return UserDTO{}, err
	}

	hash, err := s.Hasher.Hash(cmd.Password)
	if err != nil {
		return UserDTO{}, fmt.Errorf("hash password: %w", err)
	}

	saved, err := s.Users.Save(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return UserDTO{}, ErrEmailAlreadyExists
		}
		return UserDTO{}, fmt.Errorf("save user: %w", err)
	}
	if err := s.Users.UpdatePasswordHash(ctx, saved.ID, hash); err != nil {
		return UserDTO{}, fmt.Errorf("store credential: %w", err)
	}

	token, err := s.TokenGen.VerificationToken()
	if err != nil {
		return UserDTO{}, fmt.Errorf("generate verification token: %w", err)
	}
	expiresAt := time.Now().UTC().Add(VerificationTokenTTL)
	vt := entity.EmailVerificationToken{
		Token:     token,
		UserID:    saved.ID,
		Email:     saved.Email.String(),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Tokens.SaveVerificationToken(ctx, vt); err != nil {
		return UserDTO{}, fmt.Errorf("save verification token: %w", err)
	}

	verifyURL := s.VerifyEmailURL + "?token=" + token
	mailErr := s.Mail.SendVerificationEmail(ctx, saved.Email.String(), saved.FullName(), verifyURL, expiresAt)
	s.logWarn(mailErr, "verification email failed", logrus.Fields{"user_id": saved.ID})

	s.publish(ctx, event.UserCreated{
		TenantID: saved.TenantID,
		UserID:   saved.ID,
		Email:    saved.Email.String(),
		Role:     string(saved.Role),
	})

	dto := toUserDTO(saved)
	s.indexUser(ctx, dto)
	return dto, nil
}

// VerifyEmail consumes a verification token and activates the account.
// Consumption is atomic: of two concurrent calls with the same token exactly
// one can succeed, the other sees ErrInvalidToken.
func (s *Service) VerifyEmail(ctx context.Context, cmd VerifyEmailCommand) (UserDTO, error) {
	vt, err := s.Tokens.ConsumeVerificationToken(ctx, cmd.Token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return UserDTO{}, ErrInvalidToken
		}
		return UserDTO{}, fmt.Errorf("consume verification token: %w", err)
	}
	if vt.IsExpired() {
		return UserDTO{}, ErrTokenExpired
	}

	saved, err := s.Users.Mutate(ctx, vt.UserID, func(u *entity.User) error {
		if u.Status == entity.StatusDeleted {
			return ErrUserNotFound
		}
		u.VerifyEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrUserNotFound) {
			return UserDTO{}, ErrUserNotFound
		}
		return UserDTO{}, fmt.Errorf("verify email: %w", err)
	}

	s.publish(ctx, event.UserEmailVerified{
		TenantID: saved.TenantID,
		UserID:   saved.ID,
		Email:    saved.Email.String(),
	})

	dto := toUserDTO(saved)
	s.indexUser(ctx, dto)
	return dto, nil
}
