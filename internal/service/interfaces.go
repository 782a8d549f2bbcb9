package service

import (
	"context"

	"github.com/opaldesk/accounts-backend/internal/types"
)

// IUserService defines the profile operations exposed to handlers and to
// the account deletion orchestrator.
type IUserService interface {
	GetProfile(ctx context.Context, userID string) (*types.FullUserProfile, error)
	UpdateProfile(ctx context.Context, userID string, req *types.UpdateProfileRequest) (*types.FullUserProfile, error)
	CreateUser(ctx context.Context, userID, email, nickname string) (*types.FullUserProfile, error)
	EnsureUser(ctx context.Context, identity *types.Identity) (*types.FullUserProfile, error)
	DeleteUser(ctx context.Context, userID string) error
	CheckNicknameAvailability(ctx context.Context, nickname, excludeUserID string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	UploadProfileImage(ctx context.Context, userID string, data []byte, contentType, filename string) (*types.UploadImageResult, error)
	DeleteProfileImage(ctx context.Context, userID string) (*types.FullUserProfile, error)
}

// ObjectStore abstracts per-user binary asset storage. Upload returns the
// public URL of the stored object; Delete accepts that URL back.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, objectURL string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// IdentityAdmin abstracts administrative operations against the identity
// provider.
type IdentityAdmin interface {
	DeleteUser(ctx context.Context, userID string) error
	UpdateAttribute(ctx context.Context, userID, name, value string) error
	InitiatePasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error
	GetUser(ctx context.Context, userID string) (*types.IdentityRecord, error)
}
