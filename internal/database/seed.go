package database

import (
	"github.com/elvinq/carbazar/internal/config"
	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/utils"
	"gorm.io/gorm"
)

// EnsureAdmin makes sure at least one admin account exists. Runs once at
// startup, after migration; it is idempotent and does nothing when any admin
// row is already present.
func EnsureAdmin(db *gorm.DB, cfg *config.Config) (created bool, err error) {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	admin := models.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
