package models

import "time"

// JobPost - вакансия, размещенная компанией.
// Deadline хранится как дата (без времени) - день окончания приема откликов.
type JobPost struct {
	BaseModel
	UserID      string    `gorm:"not null;index"` // владелец (COMPANY)
	Title       string    `gorm:"not null"`
	CompanyName string    `gorm:"not null"`
	Deadline    time.Time `gorm:"type:date;not null;index"`
	IsActive    bool      `gorm:"default:true"`
}

// UserFavoriteJob - закладка "избранная вакансия" пользователя.
type UserFavoriteJob struct {
	BaseModel
	UserID    string `gorm:"not null;uniqueIndex:idx_user_fav_job"`
	JobPostID string `gorm:"not null;uniqueIndex:idx_user_fav_job"`

	JobPost *JobPost `gorm:"foreignKey:JobPostID"`
}

// UserFollowedCompany - подписка пользователя на компанию.
type UserFollowedCompany struct {
	BaseModel
	UserID        string `gorm:"not null;uniqueIndex:idx_user_followed_company"`
	CompanyUserID string `gorm:"not null;uniqueIndex:idx_user_followed_company"`
}
