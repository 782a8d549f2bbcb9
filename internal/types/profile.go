package types

import "time"

// Identity represents a verified external identity extracted from a
// bearer token. It is never persisted directly; the auth middleware
// provisions a users row from it on first sight.
type Identity struct {
	Sub      string
	Email    string
	Nickname string
	TokenUse string
	Claims   map[string]interface{}
}

// DisplayName returns the preferred nickname for provisioning, falling
// back to the email address when the token carries no display name.
func (i *Identity) DisplayName() string {
	if i.Nickname != "" {
		return i.Nickname
	}
	return i.Email
}

// FullUserProfile is the read model returned to API callers: the join of
// the users row and its user_profiles extension, in camelCase.
type FullUserProfile struct {
	UserID          string    `json:"userId"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	Bio             *string   `json:"bio"`
	PhoneNumber     *string   `json:"phoneNumber"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UpdateProfileRequest is a partial profile update: nil fields are left
// untouched.
type UpdateProfileRequest struct {
	Nickname        *string `json:"nickname"`
	Bio             *string `json:"bio"`
	PhoneNumber     *string `json:"phoneNumber"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// IsEmpty reports whether the request carries no field at all.
func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.Nickname == nil && r.Bio == nil && r.PhoneNumber == nil && r.ProfileImageURL == nil
}

// UploadImageResult is returned by the profile image upload operation.
type UploadImageResult struct {
	ImageURL string          `json:"imageUrl"`
	Profile  FullUserProfile `json:"profile"`
}

// IdentityRecord is the administrative view of an identity-provider user.
type IdentityRecord struct {
	Username   string            `json:"username"`
	UserStatus string            `json:"userStatus"`
	Enabled    bool              `json:"enabled"`
	Attributes map[string]string `json:"attributes"`
}
