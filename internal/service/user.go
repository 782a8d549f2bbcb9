package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/opaldesk/accounts-backend/internal/models"
	"github.com/opaldesk/accounts-backend/internal/types"
)

// UserService handles account and profile persistence.
type UserService struct {
	db      *gorm.DB
	objects ObjectStore
}

// Ensure UserService implements IUserService
var _ IUserService = (*UserService)(nil)

// NewUserService creates a new UserService instance.
func NewUserService(db *gorm.DB, objects ObjectStore) *UserService {
	return &UserService{
		db:      db,
		objects: objects,
	}
}

// GetProfile returns the merged account + profile projection. Accounts
// marked deleted are invisible here.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*types.FullUserProfile, error) {
	return s.getProfile(ctx, s.db, userID)
}

func (s *UserService) getProfile(ctx context.Context, tx *gorm.DB, userID string) (*types.FullUserProfile, error) {
	var user models.User
	err := tx.WithContext(ctx).
		Where("user_id = ? AND status != ?", userID, models.StatusDeleted).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, upstreamError("failed to load user", err)
	}

	var profile models.UserProfile
	err = tx.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, upstreamError("failed to load profile", err)
	}

	return &types.FullUserProfile{
		UserID:          user.UserID,
		Email:           user.Email,
		Nickname:        user.Nickname,
		ProfileImageURL: profile.ProfileImageURL,
		Bio:             profile.Bio,
		PhoneNumber:     profile.PhoneNumber,
		Status:          user.Status,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}, nil
}

// fieldChange is one (column, value) pair produced from a patch.
type fieldChange struct {
	column string
	value  interface{}
}

// profileChanges maps the profile-table fields of a patch to the ordered
// column writes they imply. Pure: no storage concerns here.
func profileChanges(req *types.UpdateProfileRequest) []fieldChange {
	var changes []fieldChange
	if req.ProfileImageURL != nil {
		changes = append(changes, fieldChange{"profile_image_url", req.ProfileImageURL})
	}
	if req.Bio != nil {
		changes = append(changes, fieldChange{"bio", req.Bio})
	}
	if req.PhoneNumber != nil {
		changes = append(changes, fieldChange{"phone_number", req.PhoneNumber})
	}
	return changes
}

func changesToMap(changes []fieldChange) map[string]interface{} {
	m := make(map[string]interface{}, len(changes)+1)
	for _, c := range changes {
		m[c.column] = c.value
	}
	return m
}

// UpdateProfile validates every present field, then applies all changes
// in one transaction and returns the refreshed projection. Nothing is
// written when any field fails validation.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *types.UpdateProfileRequest) (*types.FullUserProfile, error) {
	if req.Nickname != nil {
		if err := ValidateNickname(*req.Nickname); err != nil {
			return nil, err
		}
		available, err := s.CheckNicknameAvailability(ctx, *req.Nickname, userID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, ErrNicknameTaken
		}
	}
	if req.Bio != nil {
		if err := ValidateBio(*req.Bio); err != nil {
			return nil, err
		}
	}
	if req.PhoneNumber != nil && *req.PhoneNumber != "" {
		if err := ValidatePhoneNumber(*req.PhoneNumber); err != nil {
			return nil, err
		}
	}

	var result *types.FullUserProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		if req.Nickname != nil {
			err := tx.Model(&models.User{}).
				Where("user_id = ?", userID).
				Updates(map[string]interface{}{"nickname": *req.Nickname, "updated_at": now}).Error
			if err != nil {
				return upstreamError("failed to update user", err)
			}
		}

		if changes := profileChanges(req); len(changes) > 0 {
			updates := changesToMap(changes)
			updates["updated_at"] = now
			err := tx.Model(&models.UserProfile{}).
				Where("user_id = ?", userID).
				Updates(updates).Error
			if err != nil {
				return upstreamError("failed to update profile", err)
			}
		}

		profile, err := s.getProfile(ctx, tx, userID)
		if err != nil {
			return err
		}
		result = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateUser inserts the account and profile rows in one transaction and
// returns the projection. A concurrent insert of the same identity is
// resolved by re-reading the winner's row.
func (s *UserService) CreateUser(ctx context.Context, userID, email, nickname string) (*types.FullUserProfile, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := models.User{
			UserID:   userID,
			Email:    email,
			Nickname: nickname,
			Status:   models.StatusActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserProfile{UserID: userID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a first-sight race; the row exists now.
			return s.GetProfile(ctx, userID)
		}
		return nil, upstreamError("failed to create user", err)
	}

	log.Printf("[UserService] Created user: %s", userID)
	return s.GetProfile(ctx, userID)
}

// EnsureUser guarantees an account row exists for the verified identity,
// creating one on first sight. A display-name clash during provisioning
// falls back to a derived nickname rather than rejecting the identity.
func (s *UserService) EnsureUser(ctx context.Context, identity *types.Identity) (*types.FullUserProfile, error) {
	profile, err := s.GetProfile(ctx, identity.Sub)
	if err == nil {
		return profile, nil
	}
	if Kind(err) != KindNotFound {
		return nil, err
	}

	nickname := identity.DisplayName()
	if taken, err := s.nicknameTaken(ctx, nickname, identity.Sub); err != nil {
		return nil, err
	} else if taken {
		nickname = deriveNickname(identity)
	}

	log.Printf("[UserService] Provisioning new user: %s", identity.Sub)
	return s.CreateUser(ctx, identity.Sub, identity.Email, nickname)
}

// DeleteUser hard-deletes the profile row then the account row. The
// existence check is explicit so a missing account surfaces as not-found
// rather than a silent zero-row delete.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("user_id").Where("user_id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return upstreamError("failed to check user", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.UserProfile{}).Error; err != nil {
			return upstreamError("failed to delete profile", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.User{}).Error; err != nil {
			return upstreamError("failed to delete user", err)
		}

		log.Printf("[UserService] Deleted user: %s", userID)
		return nil
	})
}

// CheckNicknameAvailability reports whether nickname is free among
// non-deleted accounts, ignoring excludeUserID's own row.
func (s *UserService) CheckNicknameAvailability(ctx context.Context, nickname, excludeUserID string) (bool, error) {
	taken, err := s.nicknameTaken(ctx, nickname, excludeUserID)
	return !taken, err
}

func (s *UserService) nicknameTaken(ctx context.Context, nickname, excludeUserID string) (bool, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).
		Where("nickname = ? AND status != ?", nickname, models.StatusDeleted)
	if excludeUserID != "" {
		query = query.Where("user_id != ?", excludeUserID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, upstreamError("failed to check nickname", err)
	}
	return count > 0, nil
}

// UpdateLastLogin touches the account's updated_at timestamp.
func (s *UserService) UpdateLastLogin(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return upstreamError("failed to update last login", err)
	}
	return nil
}

// UploadProfileImage replaces the user's profile image. The previous
// object is removed best-effort: a failed delete is logged and never
// blocks storing the new image.
func (s *UserService) UploadProfileImage(ctx context.Context, userID string, data []byte, contentType, filename string) (*types.UploadImageResult, error) {
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if current.ProfileImageURL != nil {
		if err := s.objects.Delete(ctx, *current.ProfileImageURL); err != nil {
			log.Printf("[UserService] Failed to delete previous profile image for %s: %v", userID, err)
		}
	}

	key := ProfileImageKey(userID, filename)
	imageURL, err := s.objects.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}

	profile, err := s.UpdateProfile(ctx, userID, &types.UpdateProfileRequest{ProfileImageURL: &imageURL})
	if err != nil {
		return nil, err
	}

	return &types.UploadImageResult{ImageURL: imageURL, Profile: *profile}, nil
}

// DeleteProfileImage removes the stored image (best-effort) and clears
// the reference.
func (s *UserService) DeleteProfileImage(ctx context.Context, userID string) (*types.FullUserProfile, error) {
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if current.ProfileImageURL != nil {
		if err := s.objects.Delete(ctx, *current.ProfileImageURL); err != nil {
			log.Printf("[UserService] Failed to delete profile image for %s: %v", userID, err)
		}
	}

	err = s.db.WithContext(ctx).Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"profile_image_url": nil, "updated_at": time.Now()}).Error
	if err != nil {
		return nil, upstreamError("failed to clear profile image", err)
	}

	return s.GetProfile(ctx, userID)
}

// deriveNickname builds a provisioning fallback when the preferred
// display name is taken: the email local part plus a subject-derived
// suffix, trimmed to the nickname length limit.
func deriveNickname(identity *types.Identity) string {
	base := identity.Email
	if i := strings.Index(base, "@"); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "user"
	}
	suffix := identity.Sub
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	suffix = strings.ReplaceAll(suffix, "-", "")
	nickname := base + "_" + suffix
	if runes := []rune(nickname); len(runes) > nicknameMaxLen {
		nickname = string(runes[:nicknameMaxLen])
	}
	return nickname
}
