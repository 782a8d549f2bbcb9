package api

import (
	"github.com/gin-gonic/gin"

	"github.com/opaldesk/accounts-backend/internal/middleware"
	"github.com/opaldesk/accounts-backend/internal/service"
)

// PasswordHandler serves the unauthenticated password-reset endpoints.
type PasswordHandler struct {
	identity service.IdentityAdmin
	limiter  *middleware.RateLimiter
}

// NewPasswordHandler creates a new password handler.
func NewPasswordHandler(identity service.IdentityAdmin, limiter *middleware.RateLimiter) *PasswordHandler {
	return &PasswordHandler{identity: identity, limiter: limiter}
}

// RegisterRoutes registers the password-reset routes.
func (h *PasswordHandler) RegisterRoutes(router *gin.RouterGroup) {
	reset := router.Group("/password-reset")
	reset.Use(h.limiter.IPRateLimitMiddleware())
	{
		reset.POST("", h.InitiateReset)
		reset.POST("/confirm", h.ConfirmReset)
	}
}

// InitiateResetRequest is the body of POST /password-reset.
type InitiateResetRequest struct {
	Email string `json:"email"`
}

// ConfirmResetRequest is the body of POST /password-reset/confirm.
type ConfirmResetRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// InitiateReset sends a reset code to the given email.
func (h *PasswordHandler) InitiateReset(c *gin.Context) {
	var req InitiateResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	if req.Email == "" {
		respondValidation(c, "Email is required")
		return
	}
	if err := service.ValidateEmail(req.Email); err != nil {
		respondError(c, err)
		return
	}

	if err := h.identity.InitiatePasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, nil, "Password reset code sent to email")
}

// ConfirmReset completes a reset with the emailed code.
func (h *PasswordHandler) ConfirmReset(c *gin.Context) {
	var req ConfirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		respondValidation(c, "Email, code, and newPassword are required")
		return
	}

	if err := h.identity.ConfirmPasswordReset(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, nil, "Password reset successfully")
}
