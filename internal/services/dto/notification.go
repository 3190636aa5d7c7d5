package dto

import (
	"time"

	"jobstreet_backend/internal/models"
)

// ---------------- Requests ----------------

// CandidateNotification - кандидат на доставку. Перед записью он проходит
// фильтр настроек получателя, если не выставлен Force.
type CandidateNotification struct {
	UserID   string                  `json:"user_id" validate:"required"`
	Role     models.UserRole         `json:"role" validate:"omitempty,is-user-role"`
	Type     models.NotificationType `json:"type" validate:"required"`
	Title    string                  `json:"title" validate:"required,max=100"`
	Message  string                  `json:"message" validate:"omitempty,max=1000"`
	Metadata map[string]interface{}  `json:"metadata"`

	// Force обходит фильтр настроек: подтверждения собственных действий
	// пользователя доставляются всегда.
	Force bool `json:"force"`
}

type UpdateNotificationSettingsRequest struct {
	AllNotifications *bool           `json:"allNotifications,omitempty"`
	Settings         map[string]bool `json:"settings,omitempty"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type NotificationSettingsResponse struct {
	Role             models.UserRole `json:"role"`
	AllNotifications bool            `json:"allNotifications"`
	Settings         map[string]bool `json:"settings"`
}

type CancelledResponse struct {
	Deleted int64 `json:"deleted"`
}
