package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jobstreet_backend/internal/config"
)

func setTestConfig(secret string) {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
}

func TestGenerateAndParseToken_RoundTrip(t *testing.T) {
	setTestConfig("test-secret-key")

	token, err := GenerateToken("user-123", "MEMBER")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "MEMBER", claims.Role)
}

func TestParseToken_InvalidToken(t *testing.T) {
	setTestConfig("test-secret-key")

	_, err := ParseToken("invalid-token")
	assert.Error(t, err)
}

func TestParseToken_EmptyToken(t *testing.T) {
	setTestConfig("test-secret-key")

	_, err := ParseToken("")
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	setTestConfig("secret-key-1")
	token, err := GenerateToken("user-123", "MEMBER")
	assert.NoError(t, err)

	setTestConfig("secret-key-2")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateToken_SetsExpiration(t *testing.T) {
	setTestConfig("test-secret-key")

	token, err := GenerateToken("user-123", "COMPANY")
	assert.NoError(t, err)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims.ExpiresAt)
	assert.True(t, time.Now().Before(claims.ExpiresAt.Time))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPasswordHash("password123", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("long-enough-password"))
}
