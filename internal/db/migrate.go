package db

import (
	"fmt" // Error wrapping

	"feedback_board/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate creates the users and feedback tables with their constraints
func Migrate(db *gorm.DB) error {
	// Users first, feedback references users.username
	if err := db.AutoMigrate(&domain.User{}, &domain.Feedback{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logrus.Info("Migration completed.")
	return nil
}
