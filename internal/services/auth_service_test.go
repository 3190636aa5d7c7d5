package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobstreet_backend/internal/auth"
	"jobstreet_backend/internal/config"
	"jobstreet_backend/internal/models"
	"jobstreet_backend/internal/services/dto"
	"jobstreet_backend/pkg/apperrors"
)

func newTestAuthService(t *testing.T) (AuthService, *fakeUserStore, *fakeSettingStore) {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg

	users := newFakeUserStore()
	settings := newFakeSettingStore()
	notifications := NewNotificationService(&fakeNotificationStore{}, settings, users, newFakeJobStore(), nil)

	return NewAuthService(users, notifications), users, settings
}

func seedUser(t *testing.T, users *fakeUserStore, email, password string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	assert.NoError(t, err)

	user := &models.User{
		BaseModel:    models.BaseModel{ID: "u1"},
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		Status:       models.UserStatusActive,
	}
	assert.NoError(t, users.Create(user))
	return user
}

func TestLogin_Success(t *testing.T) {
	service, users, settings := newTestAuthService(t)
	seedUser(t, users, "member@example.com", "password123", models.UserRoleMember)

	resp, err := service.Login(&dto.LoginRequest{Email: "member@example.com", Password: "password123"})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, string(models.UserRoleMember), resp.User.Role)

	// Токен разбирается обратно в те же claims
	claims, err := auth.ParseToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, string(models.UserRoleMember), claims.Role)

	// Вход досоздал настройки уведомлений для роли
	setting, err := settings.Get("u1", models.UserRoleMember)
	assert.NoError(t, err)
	assert.True(t, setting.AllNotifications)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, users, _ := newTestAuthService(t)
	seedUser(t, users, "member@example.com", "password123", models.UserRoleMember)

	_, err := service.Login(&dto.LoginRequest{Email: "member@example.com", Password: "wrong-password"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	service, _, _ := newTestAuthService(t)

	_, err := service.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_RepeatedLoginKeepsSettings(t *testing.T) {
	service, users, settings := newTestAuthService(t)
	seedUser(t, users, "member@example.com", "password123", models.UserRoleMember)

	_, err := service.Login(&dto.LoginRequest{Email: "member@example.com", Password: "password123"})
	assert.NoError(t, err)
	_, err = service.Login(&dto.LoginRequest{Email: "member@example.com", Password: "password123"})
	assert.NoError(t, err)

	assert.Equal(t, 1, settings.upserts)
}
