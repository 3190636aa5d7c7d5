package services

import (
	"time"

	"gorm.io/gorm"

	"jobstreet_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService          AuthService
	NotificationService  NotificationService
	DeadlineAlertService DeadlineAlertService
}

// NewServiceContainer собирает репозитории и сервисы поверх подключения к БД.
func NewServiceContainer(db *gorm.DB, events EventPublisher, location *time.Location) *ServiceContainer {
	notificationRepo := repositories.NewNotificationRepository(db)
	settingRepo := repositories.NewNotificationSettingRepository(db)
	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)

	notificationService := NewNotificationService(notificationRepo, settingRepo, userRepo, jobRepo, events)

	return &ServiceContainer{
		AuthService:          NewAuthService(userRepo, notificationService),
		NotificationService:  notificationService,
		DeadlineAlertService: NewDeadlineAlertService(jobRepo, notificationService, location),
	}
}
