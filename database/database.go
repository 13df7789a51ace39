package database

import (
	"fmt"
	"log"

	config "github.com/quizarena/backend/configs"
	"github.com/quizarena/backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Competition{},
		&models.Question{},
		&models.QuizRecord{},
		&models.CompetitionSettings{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migrated successfully")
}

// SeedAdmin creates the initial admin account when no admin exists yet.
func SeedAdmin() {
	var count int64
	DB.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return
	}

	password := config.ConfigOr("ADMIN_PASSWORD", "admin")
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("🔥 Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Username: config.ConfigOr("ADMIN_USERNAME", "admin"),
		Password: string(hashed),
		Role:     "admin",
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("🔥 Failed to seed admin user: %v", err)
		return
	}
	log.Printf("✅ Seeded admin user %q", admin.Username)
}
