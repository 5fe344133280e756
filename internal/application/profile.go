package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/internal/domain/event"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
	"github.com/finhub-saas/identity-service/pkg/helpers"
)

// GetProfile returns the current snapshot for a user.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (UserDTO, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return UserDTO{}, ErrUserNotFound
		}
		return UserDTO{}, fmt.Errorf("load user: %w", err)
	}
	if u.Status == entity.StatusDeleted {
		return UserDTO{}, ErrUserNotFound
	}
	return toUserDTO(u), nil
}

// UpdateProfile applies only the fields present in the command. When nothing
// changes the current snapshot is returned without persisting or publishing.
func (s *Service) UpdateProfile(ctx context.Context, cmd UpdateProfileCommand) (UserDTO, error) {
	u, err := s.Users.GetByID(ctx, cmd.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return UserDTO{}, ErrUserNotFound
		}
		return UserDTO{}, fmt.Errorf("load user: %w", err)
	}
	if u.Status == entity.StatusDeleted {
		return UserDTO{}, ErrUserNotFound
	}

	var updatedFields []string
	if cmd.FirstName != nil && *cmd.FirstName != u.FirstName {
		updatedFields = append(updatedFields, "first_name")
	}
	if cmd.LastName != nil && *cmd.LastName != u.LastName {
		updatedFields = append(updatedFields, "last_name")
	}
	if cmd.AvatarURL != nil && *cmd.AvatarURL != u.AvatarURL {
		updatedFields = append(updatedFields, "avatar_url")
	}
	if len(updatedFields) == 0 {
		return toUserDTO(u), nil
	}

	saved, err := s.Users.Mutate(ctx, u.ID, func(x *entity.User) error {
		if x.Status == entity.StatusDeleted {
			return ErrUserNotFound
		}
		if cmd.FirstName != nil {
			x.FirstName = *cmd.FirstName
		}
		if cmd.LastName != nil {
			x.LastName = *cmd.LastName
		}
		if cmd.AvatarURL != nil {
			x.AvatarURL = *cmd.AvatarURL
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrUserNotFound) {
			return UserDTO{}, ErrUserNotFound
		}
		return UserDTO{}, fmt.Errorf("update profile: %w", err)
	}

	s.publish(ctx, event.UserProfileUpdated{
		TenantID:      saved.TenantID,
		UserID:        saved.ID,
		UpdatedFields: updatedFields,
	})

	dto := toUserDTO(saved)
	s.indexUser(ctx, dto)
	return dto, nil
}

// UploadAvatar stores an avatar image in GCS and records its public URL on
// the profile.
func (s *Service) UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, filename, contentType string) (UserDTO, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return UserDTO{}, errors.New("avatar storage not configured")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID.String(), uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return UserDTO{}, fmt.Errorf("upload avatar: %w", err)
	}

	return s.UpdateProfile(ctx, UpdateProfileCommand{UserID: userID, AvatarURL: &url})
}
