package testutil

import (
	"testing"

	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Services log through the global zap logger; make sure it exists before any
// test touches them.
func init() {
	if logger.Log == nil {
		_ = logger.Init(true)
	}
}

// SetupTestDatabase creates an in-memory SQLite database migrated with the
// real models. Fast and isolated; no Docker required.
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Car{},
		&models.CarImage{},
		&models.CarFeature{},
	)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying DB: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
