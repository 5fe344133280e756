package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/finhub-saas/identity-service/internal/application"
	"github.com/finhub-saas/identity-service/pkg/helpers"
	"github.com/finhub-saas/identity-service/pkg/response"
	"github.com/finhub-saas/identity-service/pkg/validation"
)

type AuthHandler struct {
	Svc     *userapp.Service
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *userapp.Service, jwt *helpers.JWTManager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, JWT: jwt, Logger: logger, Cookies: helpers.NewCookieManager(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
}

type verifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterUserCommand{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		var policyErr *userapp.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			response.Error(c, http.StatusUnprocessableEntity, "password does not meet security requirements", policyErr.Violations)
		case errors.Is(err, userapp.ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, "email already registered", nil)
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Error(c, http.StatusInternalServerError, "registration failed", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, u, "registered; check your email to verify your address", nil)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.VerifyEmail(c.Request.Context(), userapp.VerifyEmailCommand{Token: req.Token})
	if err != nil {
		switch {
		case errors.Is(err, userapp.ErrTokenExpired):
			response.Error(c, http.StatusGone, "verification link expired", nil)
		case errors.Is(err, userapp.ErrInvalidToken):
			response.Error(c, http.StatusBadRequest, "invalid verification token", nil)
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).Error("email verification failed")
			response.Error(c, http.StatusInternalServerError, "verification failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, u, "email verified", nil)
}

// ForgotPassword always answers with the same generic message, whether or not
// the address exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.RequestPasswordReset(c.Request.Context(), userapp.RequestPasswordResetCommand{Email: req.Email}); err != nil {
		h.Logger.WithError(err).Error("password reset request failed")
		response.Error(c, http.StatusInternalServerError, "request failed", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "if that address is registered, a reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.ResetPassword(c.Request.Context(), userapp.ResetPasswordCommand{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		var policyErr *userapp.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			response.Error(c, http.StatusUnprocessableEntity, "password does not meet security requirements", policyErr.Violations)
		case errors.Is(err, userapp.ErrTokenExpired):
			response.Error(c, http.StatusGone, "reset link expired", nil)
		case errors.Is(err, userapp.ErrInvalidToken):
			response.Error(c, http.StatusBadRequest, "invalid reset token", nil)
		case errors.Is(err, userapp.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).Error("password reset failed")
			response.Error(c, http.StatusInternalServerError, "reset failed", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password has been reset", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), userapp.LoginCommand{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.GetString("real_ip"),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		var locked *userapp.AccountLockedError
		var notActive *userapp.AccountNotActiveError
		switch {
		case errors.As(err, &locked):
			response.Error(c, http.StatusForbidden, "account temporarily locked", map[string]any{"locked_until": locked.LockedUntil})
		case errors.As(err, &notActive):
			response.Error(c, http.StatusForbidden, "account is not active", map[string]any{"status": string(notActive.Status)})
		case errors.Is(err, userapp.ErrEmailNotVerified):
			response.Error(c, http.StatusForbidden, "email address not verified", nil)
		case errors.Is(err, userapp.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error(c, http.StatusInternalServerError, "login failed", nil)
		}
		return
	}

	h.Cookies.SetPair(c, res.Tokens.AccessToken, h.JWT.AccessTTL, res.Tokens.RefreshToken, h.JWT.RefreshTTL)
	response.Success(c, http.StatusOK, res, "login successful", nil)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	tokens, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, tokens.AccessToken, h.JWT.AccessTTL, tokens.RefreshToken, h.JWT.RefreshTTL)
	response.Success(c, http.StatusOK, tokens, "token refreshed", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if uid := currentUserID(c); uid != nil {
		h.Svc.Logout(c.Request.Context(), *uid)
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}
