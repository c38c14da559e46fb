package main

import (
	"log"
	"os"

	"github.com/elvinq/carbazar/internal/config"
	"github.com/elvinq/carbazar/internal/database"
	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/utils"
)

// Creates a named admin account from ADMIN_USERNAME / ADMIN_EMAIL /
// ADMIN_PASSWORD. Unlike the startup reconciliation in the server, which only
// guarantees some admin exists, this command provisions a specific one.
func main() {
	cfg := config.Load()
	database.Connect(cfg)

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	var admin models.User
	result := database.DB.Where("email = ?", adminEmail).First(&admin)
	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Username)
		log.Println("  Email:", admin.Email)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully")
	log.Println("  Username:", admin.Username)
	log.Println("  Email:", admin.Email)
}
