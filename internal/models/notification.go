package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationNewJobFromFavoriteCompany NotificationType = "NEW_JOB_FROM_FAVORITE_COMPANY"
	NotificationFavoriteJobDeadline       NotificationType = "FAVORITE_JOB_DEADLINE"
	NotificationEmpJobDeadline            NotificationType = "EMP_JOB_DEADLINE"
	NotificationApplicationStatusUpdate   NotificationType = "APPLICATION_STATUS_UPDATE"
	NotificationEmpApplicationReceived    NotificationType = "EMP_APPLICATION_RECEIVED"
	NotificationEmpJobDeletedByAdmin      NotificationType = "EMP_JOB_DELETED_BY_ADMIN"
	NotificationAdminInquiryCreated       NotificationType = "ADMIN_INQUIRY_CREATED"
	NotificationAdminReportCreated        NotificationType = "ADMIN_REPORT_CREATED"
	NotificationInquiryReportAnswered     NotificationType = "INQUIRY_REPORT_ANSWERED"
)

// Ключи категорий в JSON настроек. Совпадают с полями,
// которые видит клиент в GET /settings.
const (
	SettingNewJobFromFollowedCompany = "newJobFromFollowedCompany"
	SettingFavoriteJobDeadline       = "favoriteJobDeadline"
	SettingEmpJobDeadline            = "empJobDeadline"
	SettingApplicationStatusChange   = "applicationStatusChange"
	SettingNewApplicant              = "newApplicant"
	SettingAdminDeletedJob           = "adminDeletedJob"
	SettingNewInquiry                = "newInquiry"
	SettingNewReport                 = "newReport"
	SettingInquiryReportAnswered     = "inquiryReportAnswered"
)

// TypeCategory отображает тип уведомления в ключ категории настроек.
// Тип без записи здесь не фильтруется настройками (проходит всегда).
var TypeCategory = map[NotificationType]string{
	NotificationNewJobFromFavoriteCompany: SettingNewJobFromFollowedCompany,
	NotificationFavoriteJobDeadline:       SettingFavoriteJobDeadline,
	NotificationEmpJobDeadline:            SettingEmpJobDeadline,
	NotificationApplicationStatusUpdate:   SettingApplicationStatusChange,
	NotificationEmpApplicationReceived:    SettingNewApplicant,
	NotificationEmpJobDeletedByAdmin:      SettingAdminDeletedJob,
	NotificationAdminInquiryCreated:       SettingNewInquiry,
	NotificationAdminReportCreated:        SettingNewReport,
	NotificationInquiryReportAnswered:     SettingInquiryReportAnswered,
}

func IsKnownNotificationType(t NotificationType) bool {
	_, ok := TypeCategory[t]
	return ok
}

// RoleSettingKeys - какие категории выставляются для роли при создании
// записи настроек по умолчанию. Все включены.
var RoleSettingKeys = map[UserRole][]string{
	UserRoleMember: {
		SettingNewJobFromFollowedCompany,
		SettingFavoriteJobDeadline,
		SettingApplicationStatusChange,
		SettingInquiryReportAnswered,
	},
	UserRoleCompany: {
		SettingNewApplicant,
		SettingEmpJobDeadline,
		SettingAdminDeletedJob,
		SettingInquiryReportAnswered,
	},
	UserRoleAdmin: {
		SettingNewInquiry,
		SettingNewReport,
	},
}

// DefaultSettingsForRole возвращает карту настроек по умолчанию для роли.
func DefaultSettingsForRole(role UserRole) map[string]bool {
	defaults := make(map[string]bool)
	for _, key := range RoleSettingKeys[role] {
		defaults[key] = true
	}
	return defaults
}

type Notification struct {
	BaseModel
	UserID   string           `gorm:"not null;index"`
	Type     NotificationType `gorm:"type:varchar(40);not null"`
	Title    string           `gorm:"not null"`
	Message  string
	Metadata datatypes.JSON `gorm:"type:jsonb"` // {"job_post_id": "...", "when": "D-1"}
	IsRead   bool           `gorm:"default:false"`
	ReadAt   *time.Time
}

// NotificationSetting - настройки доставки для пары (пользователь, роль).
// Один пользователь может иметь отдельные записи для каждой из своих ролей.
type NotificationSetting struct {
	BaseModel
	UserID           string         `gorm:"not null;uniqueIndex:idx_notif_setting_user_role"`
	Role             UserRole       `gorm:"type:varchar(20);not null;uniqueIndex:idx_notif_setting_user_role"`
	AllNotifications bool           `gorm:"default:true"`
	Settings         datatypes.JSON `gorm:"type:jsonb"` // {"favoriteJobDeadline": true, ...}
}
