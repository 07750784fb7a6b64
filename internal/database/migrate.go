package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/models"
)

// RunMigrations creates or updates the schema. On postgres the vector
// extension is enabled first so the embedding column can be created.
func RunMigrations(db *gorm.DB, log zerolog.Logger) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to enable vector extension: %w", err)
		}
	}

	log.Info().Str("dialect", db.Dialector.Name()).Msg("running auto-migration")
	if err := db.AutoMigrate(
		&models.Recipe{},
		&models.FreezerItem{},
		&models.UsageLogEntry{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
