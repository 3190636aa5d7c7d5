package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"jobstreet_backend/internal/models"
)

var ErrJobPostNotFound = errors.New("job post not found")

// FavoriteJobHit - избранная вакансия вместе с пользователем,
// который должен получить напоминание о дедлайне.
type FavoriteJobHit struct {
	UserID      string
	JobPostID   string
	JobTitle    string
	CompanyName string
	Deadline    time.Time
}

// CompanyJobHit - вакансия компании, чей дедлайн попал на искомую дату.
type CompanyJobHit struct {
	OwnerUserID string
	JobPostID   string
	JobTitle    string
	CompanyName string
	Deadline    time.Time
}

type JobRepository interface {
	FindJobPostByID(id string) (*models.JobPost, error)
	FindFavoriteJobsByDeadline(deadline time.Time) ([]FavoriteJobHit, error)
	FindCompanyJobsByDeadline(deadline time.Time) ([]CompanyJobHit, error)
	FindFollowerUserIDs(companyUserID string) ([]string, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) FindJobPostByID(id string) (*models.JobPost, error) {
	var job models.JobPost
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobPostNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindFavoriteJobsByDeadline отдает пары (пользователь, вакансия) для всех
// активных избранных вакансий с дедлайном ровно в указанную дату.
func (r *JobRepositoryImpl) FindFavoriteJobsByDeadline(deadline time.Time) ([]FavoriteJobHit, error) {
	var hits []FavoriteJobHit
	err := r.db.Model(&models.UserFavoriteJob{}).
		Select(`user_favorite_jobs.user_id,
			job_posts.id AS job_post_id,
			job_posts.title AS job_title,
			job_posts.company_name,
			job_posts.deadline`).
		Joins("JOIN job_posts ON job_posts.id = user_favorite_jobs.job_post_id").
		Where("job_posts.deadline = ? AND job_posts.is_active = ?", deadline.Format("2006-01-02"), true).
		Scan(&hits).Error
	return hits, err
}

func (r *JobRepositoryImpl) FindCompanyJobsByDeadline(deadline time.Time) ([]CompanyJobHit, error) {
	var hits []CompanyJobHit
	err := r.db.Model(&models.JobPost{}).
		Select(`job_posts.user_id AS owner_user_id,
			job_posts.id AS job_post_id,
			job_posts.title AS job_title,
			job_posts.company_name,
			job_posts.deadline`).
		Where("job_posts.deadline = ? AND job_posts.is_active = ?", deadline.Format("2006-01-02"), true).
		Scan(&hits).Error
	return hits, err
}

// FindFollowerUserIDs возвращает подписчиков компании для рассылки
// о новой вакансии.
func (r *JobRepositoryImpl) FindFollowerUserIDs(companyUserID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.UserFollowedCompany{}).
		Where("company_user_id = ?", companyUserID).
		Pluck("user_id", &ids).Error
	return ids, err
}
