package database

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// ConnectSQLite opens the single-file store at path and configures it for safe
// concurrent use: foreign keys enabled so cascades fire, a busy timeout so
// competing writers queue instead of failing, and a single open connection so
// every write is serialized through one handle.
func ConnectSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path must not be empty")
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates or updates the schema for all persisted entities. It is
// idempotent and safe to run on every startup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Teacher{},
		&models.Class{},
		&models.Student{},
		&models.Assignment{},
		&models.Submission{},
		&models.ActivityLog{},
	)
}
