package models

import "time"

// Account status values. Nickname uniqueness is only enforced among rows
// whose status is not "deleted", so a removed account's nickname can be
// reused.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusDeleted  = "deleted"
)

// User is the identity-scoped account row. The primary key is the
// identity provider's subject claim, so rows are created lazily the first
// time a federated identity is seen. Account deletion removes the row
// outright; there is no gorm.DeletedAt on these tables.
type User struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"userId"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Nickname  string    `gorm:"size:50;not null;index" json:"nickname"`
	Status    string    `gorm:"size:20;not null;default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserProfile is the 1:1 extension of User. It must be deleted before its
// User row to satisfy the foreign key.
type UserProfile struct {
	ProfileID       uint      `gorm:"primaryKey;autoIncrement" json:"profileId"`
	UserID          string    `gorm:"size:64;not null;uniqueIndex" json:"userId"`
	ProfileImageURL *string   `gorm:"size:512" json:"profileImageUrl"`
	Bio             *string   `gorm:"type:text" json:"bio"`
	PhoneNumber     *string   `gorm:"size:32" json:"phoneNumber"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
