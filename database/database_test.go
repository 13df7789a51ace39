package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quizarena/backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The full schema must migrate on sqlite as well as postgres; nothing in the
// models may depend on a database-specific function.
func TestMigrateAndSeedAdmin(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	DB = db

	Migrate()
	SeedAdmin()

	var admin models.User
	if err := DB.First(&admin, "role = ?", "admin").Error; err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if admin.ID == uuid.Nil {
		t.Fatal("admin id was not assigned on create")
	}

	// Seeding again must not add a second admin.
	SeedAdmin()
	var count int64
	DB.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count != 1 {
		t.Fatalf("admin count = %d, want 1", count)
	}
}
