package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)

	// Random salt means the same password never produces the same hash.
	require.NotEqual(t, h1, h2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)

	ok, err := VerifyPassword("Secret123!", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	_, err := VerifyPassword("anything", "not-a-valid-hash")
	require.ErrorIs(t, err, ErrInvalidHash)
}

func TestVerifyPassword_EmptyPassword(t *testing.T) {
	hash, err := HashPassword("")
	require.NoError(t, err)

	ok, err := VerifyPassword("", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword("nonempty", hash)
	require.NoError(t, err)
	require.False(t, ok)
}
