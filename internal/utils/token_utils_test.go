package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-app/fintrack_backend/internal/utils"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	secret := "test-secret"
	userID := "user-123"

	tokenString, err := utils.GenerateJWT(userID, secret, time.Hour, "fintrack-backend")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := utils.ParseAndValidateJWT(tokenString, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "fintrack-backend", claims.Issuer)
}

func TestParseAndValidateJWT_WrongSecret(t *testing.T) {
	tokenString, err := utils.GenerateJWT("user-123", "right-secret", time.Hour, "fintrack-backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(tokenString, "wrong-secret")
	assert.Error(t, err)
}

func TestParseAndValidateJWT_Expired(t *testing.T) {
	tokenString, err := utils.GenerateJWT("user-123", "test-secret", -time.Minute, "fintrack-backend")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(tokenString, "test-secret")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, utils.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, utils.CheckPasswordHash("wrong password", hash))
}

func TestRefreshTokenHashing(t *testing.T) {
	hash := utils.HashRefreshToken("raw-refresh-token")
	assert.Len(t, hash, 64)
	assert.True(t, utils.CompareRefreshTokenHash("raw-refresh-token", hash))
	assert.False(t, utils.CompareRefreshTokenHash("other-token", hash))
}
