package testutil

import (
	"testing"

	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/utils"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user with a properly hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB, username, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestCar inserts an active listing owned by the given user.
func CreateTestCar(t *testing.T, db *gorm.DB, ownerID uint, title string) *models.Car {
	t.Helper()

	car := &models.Car{
		Title:    title,
		Brand:    "Toyota",
		Model:    "Corolla",
		Year:     2020,
		Price:    15000,
		UserID:   ownerID,
		IsActive: true,
	}
	if err := db.Create(car).Error; err != nil {
		t.Fatalf("Failed to create test car: %v", err)
	}
	return car
}

// CreateTestImage inserts an image row for a listing.
func CreateTestImage(t *testing.T, db *gorm.DB, carID uint, url string, isMain bool, order int) *models.CarImage {
	t.Helper()

	image := &models.CarImage{
		CarID:     carID,
		ImageURL:  url,
		IsMain:    isMain,
		SortOrder: order,
	}
	if err := db.Create(image).Error; err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	return image
}
