package database

import (
	"gorm.io/gorm"

	"github.com/altora/accountd/internal/models"
)

// AutoMigrate creates or updates the database schema for all models. The
// unique index on users.email is the authoritative guard against concurrent
// duplicate registrations; the service-level existence check is advisory.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
	)
}
