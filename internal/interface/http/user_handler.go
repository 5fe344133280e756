package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	userapp "github.com/finhub-saas/identity-service/internal/application"
	"github.com/finhub-saas/identity-service/internal/interface/middleware"
	"github.com/finhub-saas/identity-service/pkg/response"
	"github.com/finhub-saas/identity-service/pkg/validation"
)

const maxAvatarSize = 5 << 20 // 5 MiB

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,pwd"`
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) *uuid.UUID {
	raw := c.GetString(middleware.CtxUserIDKey)
	if raw == "" {
		return nil
	}
	uid, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &uid
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := currentUserID(c)
	if uid == nil {
		response.Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	u, err := h.Svc.GetProfile(c.Request.Context(), *uid)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("load profile failed")
		response.Error(c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := currentUserID(c)
	if uid == nil {
		response.Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), userapp.UpdateProfileCommand{
		UserID:    *uid,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("update profile failed")
		response.Error(c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	uid := currentUserID(c)
	if uid == nil {
		response.Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.ChangePassword(c.Request.Context(), userapp.ChangePasswordCommand{
		UserID:          *uid,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		var policyErr *userapp.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			response.Error(c, http.StatusUnprocessableEntity, "password does not meet security requirements", policyErr.Violations)
		case errors.Is(err, userapp.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "current password is incorrect", nil)
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).Error("change password failed")
			response.Error(c, http.StatusInternalServerError, "failed to change password", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password changed", nil)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := currentUserID(c)
	if uid == nil {
		response.Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "avatar file is required", nil)
		return
	}
	if file.Size > maxAvatarSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "avatar exceeds 5 MiB", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read avatar file", nil)
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	u, err := h.Svc.UploadAvatar(c.Request.Context(), *uid, src, file.Filename, contentType)
	if err != nil {
		if errors.Is(err, userapp.ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "user not found", nil)
			return
		}
		h.Logger.WithError(err).Error("avatar upload failed")
		response.Error(c, http.StatusInternalServerError, "failed to upload avatar", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "avatar updated", nil)
}
