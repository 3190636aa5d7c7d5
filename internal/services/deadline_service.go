package services

import (
	"fmt"
	"time"

	"jobstreet_backend/internal/logger"
	"jobstreet_backend/internal/models"
	"jobstreet_backend/internal/repositories"
	"jobstreet_backend/internal/services/dto"
)

// deadlineOffset описывает один шаг напоминания относительно дедлайна.
// days - сдвиг от сегодняшней даты до искомого дедлайна: +7 означает
// "дедлайн через 7 дней", -1 - "дедлайн прошел вчера".
type deadlineOffset struct {
	days  int
	label string
}

var deadlineOffsets = []deadlineOffset{
	{days: 7, label: "D-7"},
	{days: 1, label: "D-1"},
	{days: -1, label: "D+1"},
}

// DeadlineAlertService сканирует вакансии по дедлайнам и публикует
// напоминания соискателям (избранные вакансии) и компаниям (свои вакансии).
type DeadlineAlertService interface {
	RunFavoriteDeadlineScan(now time.Time) error
	RunCompanyDeadlineScan(now time.Time) error
}

type deadlineAlertService struct {
	jobRepo       repositories.JobRepository
	notifications NotificationService
	location      *time.Location
}

func NewDeadlineAlertService(
	jobRepo repositories.JobRepository,
	notifications NotificationService,
	location *time.Location,
) DeadlineAlertService {
	if location == nil {
		location = time.UTC
	}
	return &deadlineAlertService{
		jobRepo:       jobRepo,
		notifications: notifications,
		location:      location,
	}
}

// RunFavoriteDeadlineScan публикует напоминания по избранным вакансиям.
// Каждый шаг (D-7, D-1, D+1) обрабатывается независимо: сбой одного
// не останавливает остальные.
func (s *deadlineAlertService) RunFavoriteDeadlineScan(now time.Time) error {
	var lastErr error

	for _, offset := range deadlineOffsets {
		target := s.dateAtOffset(now, offset.days)

		hits, err := s.jobRepo.FindFavoriteJobsByDeadline(target)
		if err != nil {
			logger.WithError(err).Error("favorite deadline scan step failed",
				"when", offset.label, "target_date", target.Format("2006-01-02"))
			lastErr = err
			continue
		}

		candidates := make([]*dto.CandidateNotification, 0, len(hits))
		for _, hit := range hits {
			candidates = append(candidates, &dto.CandidateNotification{
				UserID:   hit.UserID,
				Role:     models.UserRoleMember,
				Type:     models.NotificationFavoriteJobDeadline,
				Title:    "Favorite job deadline",
				Message:  deadlineMessage(hit.JobTitle, offset),
				Metadata: deadlineMetadata(hit.JobPostID, hit.CompanyName, hit.JobTitle, hit.Deadline, offset.label),
			})
		}

		created, err := s.notifications.PublishBulk(candidates)
		if err != nil {
			logger.WithError(err).Error("favorite deadline publish failed", "when", offset.label)
			lastErr = err
			continue
		}

		logger.Info("favorite deadline scan step done",
			"when", offset.label, "matched", len(hits), "published", created)
	}

	return lastErr
}

func (s *deadlineAlertService) RunCompanyDeadlineScan(now time.Time) error {
	var lastErr error

	for _, offset := range deadlineOffsets {
		target := s.dateAtOffset(now, offset.days)

		hits, err := s.jobRepo.FindCompanyJobsByDeadline(target)
		if err != nil {
			logger.WithError(err).Error("company deadline scan step failed",
				"when", offset.label, "target_date", target.Format("2006-01-02"))
			lastErr = err
			continue
		}

		candidates := make([]*dto.CandidateNotification, 0, len(hits))
		for _, hit := range hits {
			candidates = append(candidates, &dto.CandidateNotification{
				UserID:   hit.OwnerUserID,
				Role:     models.UserRoleCompany,
				Type:     models.NotificationEmpJobDeadline,
				Title:    "Job post deadline",
				Message:  deadlineMessage(hit.JobTitle, offset),
				Metadata: deadlineMetadata(hit.JobPostID, hit.CompanyName, hit.JobTitle, hit.Deadline, offset.label),
			})
		}

		created, err := s.notifications.PublishBulk(candidates)
		if err != nil {
			logger.WithError(err).Error("company deadline publish failed", "when", offset.label)
			lastErr = err
			continue
		}

		logger.Info("company deadline scan step done",
			"when", offset.label, "matched", len(hits), "published", created)
	}

	return lastErr
}

// dateAtOffset возвращает полночь дня (сегодня + days) в зоне планировщика.
// Сравнение дедлайнов идет по календарной дате, не по моменту времени.
func (s *deadlineAlertService) dateAtOffset(now time.Time, days int) time.Time {
	local := now.In(s.location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	return midnight.AddDate(0, 0, days)
}

func deadlineMessage(jobTitle string, offset deadlineOffset) string {
	switch offset.label {
	case "D-7":
		return fmt.Sprintf("The deadline for '%s' is in 7 days", jobTitle)
	case "D-1":
		return fmt.Sprintf("The deadline for '%s' is tomorrow", jobTitle)
	default:
		return fmt.Sprintf("The deadline for '%s' passed yesterday", jobTitle)
	}
}

func deadlineMetadata(jobPostID, companyName, jobTitle string, deadline time.Time, label string) map[string]interface{} {
	return map[string]interface{}{
		"job_post_id":  jobPostID,
		"company_name": companyName,
		"job_title":    jobTitle,
		"deadline":     deadline.Format("2006-01-02"),
		"when":         label,
	}
}
