package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opaldesk/accounts-backend/internal/middleware"
	"github.com/opaldesk/accounts-backend/internal/service"
	"github.com/opaldesk/accounts-backend/internal/types"
)

// ProfileHandler serves the authenticated profile endpoints.
type ProfileHandler struct {
	users service.IUserService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(users service.IUserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// RegisterRoutes registers the profile routes on an already-authenticated
// group and the public nickname probe on the optional-auth group.
func (h *ProfileHandler) RegisterRoutes(protected, optional *gin.RouterGroup) {
	profile := protected.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.POST("/image", h.UploadProfileImage)
		profile.DELETE("/image", h.DeleteProfileImage)
	}

	optional.GET("/nickname/check", h.CheckNickname)
}

// GetProfile returns the caller's full profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, profile, "")
}

// UpdateProfile applies a partial profile update.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "invalid request body")
		return
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, profile, "Profile updated successfully")
}

// CheckNickname reports whether a nickname is free. Authenticated callers
// get their own current nickname excluded from the check.
func (h *ProfileHandler) CheckNickname(c *gin.Context) {
	nickname := c.Query("nickname")
	if err := service.ValidateNickname(nickname); err != nil {
		respondError(c, err)
		return
	}

	excludeUserID := c.GetString(middleware.ContextUserID)
	available, err := h.users.CheckNicknameAvailability(c.Request.Context(), nickname, excludeUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"nickname": nickname, "available": available}, "")
}

// currentUserID pulls the authenticated subject out of the gin context.
// The auth middleware guarantees it; a miss means a wiring bug, answered
// with 401 rather than a panic.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "not authenticated"})
		return "", false
	}
	return userID, true
}
