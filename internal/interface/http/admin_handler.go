package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	userapp "github.com/finhub-saas/identity-service/internal/application"
	"github.com/finhub-saas/identity-service/pkg/response"
	"github.com/finhub-saas/identity-service/pkg/validation"
)

type AdminHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewAdminHandler(svc *userapp.Service, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type setPremiumRequest struct {
	Premium bool `json:"premium"`
}

func pathUserID(c *gin.Context) (uuid.UUID, bool) {
	uid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid user id", nil)
		return uuid.Nil, false
	}
	return uid, true
}

func (h *AdminHandler) handleUserErr(c *gin.Context, err error, action string) {
	if errors.Is(err, userapp.ErrUserNotFound) {
		response.Error(c, http.StatusNotFound, "user not found", nil)
		return
	}
	h.Logger.WithError(err).Error(action + " failed")
	response.Error(c, http.StatusInternalServerError, action+" failed", nil)
}

func (h *AdminHandler) Unlock(c *gin.Context) {
	uid, ok := pathUserID(c)
	if !ok {
		return
	}
	actor := currentUserID(c)
	if actor == nil {
		response.Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	u, err := h.Svc.UnlockUser(c.Request.Context(), uid, *actor)
	if err != nil {
		h.handleUserErr(c, err, "unlock user")
		return
	}
	response.Success(c, http.StatusOK, u, "account unlocked", nil)
}

func (h *AdminHandler) Suspend(c *gin.Context) {
	uid, ok := pathUserID(c)
	if !ok {
		return
	}
	u, err := h.Svc.SuspendUser(c.Request.Context(), uid)
	if err != nil {
		h.handleUserErr(c, err, "suspend user")
		return
	}
	response.Success(c, http.StatusOK, u, "account suspended", nil)
}

func (h *AdminHandler) Reactivate(c *gin.Context) {
	uid, ok := pathUserID(c)
	if !ok {
		return
	}
	u, err := h.Svc.ReactivateUser(c.Request.Context(), uid)
	if err != nil {
		h.handleUserErr(c, err, "reactivate user")
		return
	}
	response.Success(c, http.StatusOK, u, "account reactivated", nil)
}

func (h *AdminHandler) SetPremium(c *gin.Context) {
	uid, ok := pathUserID(c)
	if !ok {
		return
	}
	actor := currentUserID(c)
	if actor == nil {
		response.Error(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}

	var req setPremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.SetPremium(c.Request.Context(), uid, req.Premium, *actor)
	if err != nil {
		h.handleUserErr(c, err, "change role")
		return
	}
	response.Success(c, http.StatusOK, u, "role updated", nil)
}

// Delete soft-deletes by default; ?hard=true removes the row entirely.
func (h *AdminHandler) Delete(c *gin.Context) {
	uid, ok := pathUserID(c)
	if !ok {
		return
	}

	hard, _ := strconv.ParseBool(c.Query("hard"))
	var err error
	if hard {
		err = h.Svc.HardDeleteUser(c.Request.Context(), uid)
	} else {
		err = h.Svc.SoftDeleteUser(c.Request.Context(), uid)
	}
	if err != nil {
		h.handleUserErr(c, err, "delete user")
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true, "hard": hard}, "user deleted", nil)
}

func (h *AdminHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.SearchUsers(c.Request.Context(), query, size)
	if err != nil {
		h.Logger.WithError(err).Error("user search failed")
		response.Error(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
