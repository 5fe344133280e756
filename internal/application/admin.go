package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finhub-saas/identity-service/internal/domain/entity"
	"github.com/finhub-saas/identity-service/internal/domain/event"
	"github.com/finhub-saas/identity-service/internal/domain/repository"
)

// Administrative operations. actorID identifies the superadmin performing
// the change and travels on the published events.

func (s *Service) UnlockUser(ctx context.Context, userID, actorID uuid.UUID) (UserDTO, error) {
	saved, err := s.mutateLive(ctx, userID, func(u *entity.User) { u.Unlock() })
	if err != nil {
		return UserDTO{}, err
	}
	s.publish(ctx, event.UserAccountUnlocked{
		TenantID:   saved.TenantID,
		UserID:     saved.ID,
		UnlockedBy: &actorID,
	})
	return toUserDTO(saved), nil
}

func (s *Service) SuspendUser(ctx context.Context, userID uuid.UUID) (UserDTO, error) {
	saved, err := s.mutateLive(ctx, userID, func(u *entity.User) { u.Suspend() })
	if err != nil {
		return UserDTO{}, err
	}
	dto := toUserDTO(saved)
	s.indexUser(ctx, dto)
	return dto, nil
}

func (s *Service) ReactivateUser(ctx context.Context, userID uuid.UUID) (UserDTO, error) {
	saved, err := s.mutateLive(ctx, userID, func(u *entity.User) { u.Reactivate() })
	if err != nil {
		return UserDTO{}, err
	}
	dto := toUserDTO(saved)
	s.indexUser(ctx, dto)
	return dto, nil
}

// SetPremium toggles the user<->premium role pair. Superadmin is never
// reachable through this path.
func (s *Service) SetPremium(ctx context.Context, userID uuid.UUID, premium bool, actorID uuid.UUID) (UserDTO, error) {
	var oldRole entity.Role
	saved, err := s.mutateLive(ctx, userID, func(u *entity.User) {
		oldRole = u.Role
		if premium {
			u.UpgradeToPremium()
		} else {
			u.DowngradeToUser()
		}
	})
	if err != nil {
		return UserDTO{}, err
	}
	if saved.Role != oldRole {
		s.publish(ctx, event.UserRoleChanged{
			TenantID:  saved.TenantID,
			UserID:    saved.ID,
			OldRole:   string(oldRole),
			NewRole:   string(saved.Role),
			ChangedBy: &actorID,
		})
	}
	return toUserDTO(saved), nil
}

// SoftDeleteUser marks the account deleted; the row stays for audit trails.
func (s *Service) SoftDeleteUser(ctx context.Context, userID uuid.UUID) error {
	saved, err := s.mutateLive(ctx, userID, func(u *entity.User) { u.SoftDelete() })
	if err != nil {
		return err
	}
	s.publish(ctx, event.UserDeleted{
		TenantID:     saved.TenantID,
		UserID:       saved.ID,
		DeletionType: event.DeletionSoft,
	})
	return nil
}

// HardDeleteUser removes the row entirely.
func (s *Service) HardDeleteUser(ctx context.Context, userID uuid.UUID) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	if err := s.Users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.publish(ctx, event.UserDeleted{
		TenantID:     u.TenantID,
		UserID:       u.ID,
		DeletionType: event.DeletionHard,
	})
	return nil
}

// SearchUsers queries the search index; with no index configured it returns
// an empty result.
func (s *Service) SearchUsers(ctx context.Context, query string, size int) ([]map[string]any, error) {
	if s.Search == nil {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Search.SearchUsers(ctx, query, size)
}

// mutateLive runs a row-locked mutation refusing deleted accounts.
func (s *Service) mutateLive(ctx context.Context, userID uuid.UUID, fn func(*entity.User)) (*entity.User, error) {
	saved, err := s.Users.Mutate(ctx, userID, func(u *entity.User) error {
		if u.Status == entity.StatusDeleted {
			return ErrUserNotFound
		}
		fn(u)
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return saved, nil
}
