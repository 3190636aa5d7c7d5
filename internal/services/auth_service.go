package services

import (
	"jobstreet_backend/internal/auth"
	"jobstreet_backend/internal/logger"
	"jobstreet_backend/internal/repositories"
	"jobstreet_backend/internal/services/dto"
	"jobstreet_backend/pkg/apperrors"
)

type AuthService interface {
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	userRepo      repositories.UserRepository
	notifications NotificationService
}

func NewAuthService(userRepo repositories.UserRepository, notifications NotificationService) AuthService {
	return &authService{
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *authService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.ErrDatabase(err, "auth")
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Настройки уведомлений досоздаются при входе. Сбой не блокирует логин:
	// GET /settings все равно синтезирует запись при первом обращении.
	if err := s.notifications.EnsureSettings(user.ID, user.Role); err != nil {
		logger.WithError(err).Warn("failed to ensure notification settings on login", "user_id", user.ID)
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  string(user.Role),
		},
	}, nil
}
