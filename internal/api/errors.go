package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opaldesk/accounts-backend/internal/service"
)

// respondError maps a service error kind to its HTTP status. The switch
// is exhaustive over service.ErrorKind; anything untagged lands on 500.
func respondError(c *gin.Context, err error) {
	var se *service.Error
	message := "internal server error"
	if errors.As(err, &se) {
		message = se.Message
	}

	switch service.Kind(err) {
	case service.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": message})
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": message})
	case service.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "message": message})
	case service.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "InternalError", "message": message})
	}
}

// respondValidation reports a request-shape problem detected at the
// handler itself, before any service call.
func respondValidation(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": message})
}

func respondOK(c *gin.Context, data interface{}, message string) {
	body := gin.H{"success": true}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(http.StatusOK, body)
}
