package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opaldesk/accounts-backend/internal/service"
)

// AccountHandler serves account-lifecycle endpoints.
type AccountHandler struct {
	deletion *service.AccountDeletionService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(deletion *service.AccountDeletionService) *AccountHandler {
	return &AccountHandler{deletion: deletion}
}

// RegisterRoutes registers the account routes on an authenticated group.
func (h *AccountHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.DELETE("/account", h.DeleteAccount)
}

// DeleteAccount runs the multi-system delete. Only a failure of the
// authoritative store deletion surfaces as an error; best-effort cleanup
// failures are already logged and recorded on the result.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.deletion.DeleteAccount(c.Request.Context(), userID)
	if err != nil {
		// The account still exists; report the store failure as-is,
		// except not-found which means there was nothing to delete.
		if service.Kind(err) == service.KindNotFound {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "DatabaseError",
			"message": "Failed to delete user from database",
		})
		return
	}

	respondOK(c, result, "Account deleted successfully")
}
