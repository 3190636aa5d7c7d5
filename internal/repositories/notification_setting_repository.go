package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobstreet_backend/internal/models"
)

var ErrSettingsNotFound = errors.New("notification settings not found")

type NotificationSettingRepository interface {
	Get(userID string, role models.UserRole) (*models.NotificationSetting, error)
	GetAllForUser(userID string) ([]models.NotificationSetting, error)
	Upsert(setting *models.NotificationSetting) error
}

type NotificationSettingRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationSettingRepository(db *gorm.DB) NotificationSettingRepository {
	return &NotificationSettingRepositoryImpl{db: db}
}

func (r *NotificationSettingRepositoryImpl) Get(userID string, role models.UserRole) (*models.NotificationSetting, error) {
	var setting models.NotificationSetting
	err := r.db.First(&setting, "user_id = ? AND role = ?", userID, role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *NotificationSettingRepositoryImpl) GetAllForUser(userID string) ([]models.NotificationSetting, error) {
	var settings []models.NotificationSetting
	err := r.db.Where("user_id = ?", userID).Find(&settings).Error
	return settings, err
}

// Upsert создает запись или обновляет существующую пару (user_id, role).
func (r *NotificationSettingRepositoryImpl) Upsert(setting *models.NotificationSetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "role"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"all_notifications", "settings", "updated_at",
		}),
	}).Create(setting).Error
}
