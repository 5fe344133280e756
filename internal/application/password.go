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

// PasswordResetTokenTTL is how long a reset link stays valid.
const PasswordResetTokenTTL = time.Hour

// timingDummyHash is a bcrypt hash of a random throwaway value. Verifying
// against it on the user-miss path keeps RequestPasswordReset and Login
// taking roughly the same time whether or not the account exists.
const timingDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// RequestPasswordReset never reveals whether the email resolves to an
// account: an unknown address returns success without storing a token or
// sending mail.
func (s *Service) RequestPasswordReset(ctx context.Context, cmd RequestPasswordResetCommand) error {
	u, err := s.Users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Hasher.Verify(cmd.Email, timingDummyHash)
			return nil
		}
		return fmt.Errorf("look up user: %w", err)
	}

	token, err := s.TokenGen.PasswordResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expiresAt := time.Now().UTC().Add(PasswordResetTokenTTL)
	rt := entity.PasswordResetToken{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Tokens.SavePasswordResetToken(ctx, rt); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	resetURL := s.ResetPasswordURL + "?token=" + token
	mailErr := s.Mail.SendPasswordResetEmail(ctx, u.Email.String(), u.FullName(), resetURL, expiresAt)
	s.logWarn(mailErr, "reset email failed", logrus.Fields{"user_id": u.ID})

	s.publish(ctx, event.UserPasswordResetRequested{
		TenantID: u.TenantID,
		UserID:   u.ID,
		Email:    u.Email.String(),
	})
	return nil
}

// ResetPassword consumes a reset token and stores the new credential.
func (s *Service) ResetPassword(ctx context.Context, cmd ResetPasswordCommand) error {
	if violations := s.Policy.Validate(cmd.NewPassword); len(violations) > 0 {
		return &PasswordPolicyError{Violations: violations}
	}

	rt, err := s.Tokens.ConsumePasswordResetToken(ctx, cmd.Token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}
	if rt.IsExpired() {
		return ErrTokenExpired
	}

	u, err := s.Users.GetByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	if u.Status == entity.StatusDeleted {
		return ErrUserNotFound
	}

	hash, err := s.Hasher.Hash(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}

	mailErr := s.Mail.SendPasswordChangedEmail(ctx, u.Email.String(), u.FullName())
	s.logWarn(mailErr, "password changed email failed", logrus.Fields{"user_id": u.ID})

	s.publish(ctx, event.UserPasswordChanged{
		TenantID:   u.TenantID,
		UserID:     u.ID,
		ChangedVia: event.ChangedViaResetToken,
	})
	return nil
}

// ChangePassword updates the credential of an authenticated user after
// verifying the current password.
func (s *Service) ChangePassword(ctx context.Context, cmd ChangePasswordCommand) error {
	if violations := s.Policy.Validate(cmd.NewPassword); len(violations) > 0 {
		return &PasswordPolicyError{Violations: violations}
	}

	u, err := s.Users.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	if u.Status == entity.StatusDeleted {
		return ErrUserNotFound
	}

	current, err := s.Users.GetPasswordHash(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if !s.Hasher.Verify(cmd.CurrentPassword, current) {
		return ErrInvalidCredentials
	}

	hash, err := s.Hasher.Hash(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}

	mailErr := s.Mail.SendPasswordChangedEmail(ctx, u.Email.String(), u.FullName())
	s.logWarn(mailErr, "password changed email failed", logrus.Fields{"user_id": u.ID})

	s.publish(ctx, event.UserPasswordChanged{
		TenantID:   u.TenantID,
		UserID:     u.ID,
		ChangedVia: event.ChangedViaUserAction,
	})
	return nil
}
