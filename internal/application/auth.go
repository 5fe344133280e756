package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/internal/domain/event"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
)

func sessionKey(userID string) string { return "user:session:" + userID }

// Login authenticates by email and password. The lockout gate runs before
// credential verification, so a locked account is rejected independent of
// credential correctness. Failed attempts are recorded through the
// serialized repository mutate so concurrent failures never lose an
// increment.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (LoginResultDTO, error) {
	u, err := s.Users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a hash comparison so an unknown address takes about as
			// long as a wrong password.
			s.Hasher.Verify(cmd.Password, timingDummyHash)
			s.publish(ctx, event.UserLoginFailed{
				Email:     cmd.Email,
				IPAddress: cmd.IPAddress,
				Reason:    "invalid_credentials",
			})
			return LoginResultDTO{}, ErrInvalidCredentials
		}
		return LoginResultDTO{}, fmt.Errorf("look up user: %w", err)
	}

	if u.IsLocked() {
		return LoginResultDTO{}, &AccountLockedError{LockedUntil: *u.LockedUntil}
	}
	if !u.IsActive() {
		if u.Status == entity.StatusPending && !u.IsEmailVerified {
			return LoginResultDTO{}, ErrEmailNotVerified
		}
		return LoginResultDTO{}, &AccountNotActiveError{Status: u.Status}
	}

	hash, err := s.Users.GetPasswordHash(ctx, u.ID)
	if err != nil {
		return LoginResultDTO{}, fmt.Errorf("load credential: %w", err)
	}
	if !s.Hasher.Verify(cmd.Password, hash) {
		updated, mErr := s.Users.Mutate(ctx, u.ID, func(x *entity.User) error {
			x.RecordFailedLogin()
			return nil
		})
		s.logWarn(mErr, "record failed login", logrus.Fields{"user_id": u.ID})

		s.publish(ctx, event.UserLoginFailed{
			Email:     cmd.Email,
			IPAddress: cmd.IPAddress,
			Reason:    "invalid_credentials",
		})
		if mErr == nil && updated.LockedUntil != nil {
			s.publish(ctx, event.UserAccountLocked{
				TenantID:    updated.TenantID,
				UserID:      updated.ID,
				LockedUntil: *updated.LockedUntil,
				Reason:      "too_many_failed_attempts",
			})
		}
		return LoginResultDTO{}, ErrInvalidCredentials
	}

	saved, err := s.Users.Mutate(ctx, u.ID, func(x *entity.User) error {
		x.RecordSuccessfulLogin()
		return nil
	})
	if err != nil {
		return LoginResultDTO{}, fmt.Errorf("record login: %w", err)
	}

	tokens, err := s.issueTokens(ctx, saved)
	if err != nil {
		return LoginResultDTO{}, err
	}

	s.publish(ctx, event.UserLoggedIn{
		TenantID:  saved.TenantID,
		UserID:    saved.ID,
		IPAddress: cmd.IPAddress,
		UserAgent: cmd.UserAgent,
	})

	return LoginResultDTO{User: toUserDTO(saved), Tokens: tokens}, nil
}

// issueTokens asks the JWT collaborator for a token pair and records the
// session in Redis under a fresh session id.
func (s *Service) issueTokens(ctx context.Context, u *entity.User) (AuthTokensDTO, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID.String(), sid)
	if err != nil {
		return AuthTokensDTO{}, fmt.Errorf("generate access token: %w", err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID.String(), sid)
	if err != nil {
		return AuthTokensDTO{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if s.Redis != nil {
		key := sessionKey(u.ID.String())
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID.String(),
			"email":      u.Email.String(),
			"role":       string(u.Role),
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, time.Until(rexp))
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis session write failed")
		}
	}

	return AuthTokensDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(time.Until(aexp).Seconds()),
	}, nil
}

// Refresh rotates the session id and token pair for a valid refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthTokensDTO, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return AuthTokensDTO{}, ErrInvalidCredentials
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return AuthTokensDTO{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		return AuthTokensDTO{}, ErrInvalidCredentials
	}
	if !u.CanLogin() {
		return AuthTokensDTO{}, ErrInvalidCredentials
	}

	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(claims.UserID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return AuthTokensDTO{}, ErrInvalidCredentials
		}
	}

	return s.issueTokens(ctx, u)
}

// Logout drops the Redis session; cookie clearing happens at the HTTP layer.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) {
	if s.Redis != nil {
		if err := s.Redis.Del(ctx, sessionKey(userID.String())).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
		}
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return
	}
	s.publish(ctx, event.UserLoggedOut{TenantID: u.TenantID, UserID: u.ID})
}
