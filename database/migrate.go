package database

import (
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table. Parents come before children so
// foreign keys resolve on a fresh database.
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.Choice{},
		&model.Assignment{},
		&model.Attempt{},
		&model.AttemptAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
