package api

import (
	"io"

	"github.com/gin-gonic/gin"
)

// MaxImageSize is the upload cap for profile images.
const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadProfileImage replaces the caller's profile image. Type and size
// are rejected here, before any storage call happens.
func (h *ProfileHandler) UploadProfileImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondValidation(c, "No image file provided")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		respondValidation(c, "Invalid file type. Allowed: JPEG, PNG, GIF, WebP")
		return
	}

	if file.Size > MaxImageSize {
		respondValidation(c, "File too large. Maximum size is 5MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(io.LimitReader(src, MaxImageSize+1))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(data) > MaxImageSize {
		respondValidation(c, "File too large. Maximum size is 5MB")
		return
	}

	result, err := h.users.UploadProfileImage(c.Request.Context(), userID, data, contentType, file.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, result, "Profile image uploaded successfully")
}

// DeleteProfileImage removes the caller's profile image.
func (h *ProfileHandler) DeleteProfileImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.users.DeleteProfileImage(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, profile, "Profile image deleted successfully")
}
