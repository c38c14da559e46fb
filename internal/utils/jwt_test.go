package utils

import (
	"testing"
	"time"

	"github.com/elvinq/carbazar/internal/models"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Username: "aysel",
		Email:    "aysel@example.com",
		Role:     models.RoleUser,
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	user := testUser()
	token, err := GenerateToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, user.Username, claims.Username)
	require.Equal(t, models.RoleUser, claims.Role)
}

func TestValidateToken_AdminRole(t *testing.T) {
	admin := testUser()
	admin.Role = models.RoleAdmin

	token, err := GenerateToken(admin, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "a different secret")
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	require.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("definitely.not.ajwt", testSecret)
	require.Error(t, err)
}
