package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/opaldesk/accounts-backend/internal/models"
)

// RunMigrations brings the account schema up to date. The user_profiles
// table references users, so the order here matters.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running migrations")
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
	)
}
