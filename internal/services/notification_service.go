package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"jobstreet_backend/internal/logger"
	"jobstreet_backend/internal/models"
	"jobstreet_backend/internal/repositories"
	"jobstreet_backend/internal/services/dto"
	"jobstreet_backend/pkg/apperrors"
)

// EventName - имя realtime-события, которое получает клиент
// при появлении нового уведомления.
const EventName = "notification:new"

// EventPublisher доставляет событие подключенным сессиям пользователя.
// Доставка best-effort: оффлайн-получатель просто не получает событие.
type EventPublisher interface {
	Publish(userID, event string, payload interface{})
}

type NotificationService interface {
	// Публикация
	Publish(candidate *dto.CandidateNotification) (*dto.NotificationResponse, error)
	PublishBulk(candidates []*dto.CandidateNotification) (int, error)

	// Лента пользователя
	GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetNotification(userID, notificationID string) (*dto.NotificationResponse, error)
	GetUnreadCount(userID string) (int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	DeleteNotification(userID, notificationID string) error
	DeleteUserNotifications(userID string) error

	// Отзыв уведомлений об удаленных объектах
	CancelByJobPost(jobPostID string) (int64, error)
	CancelByInquiryOrReport(targetID string) (int64, error)
	CleanOldNotifications(days int) error

	// Настройки
	EnsureSettings(userID string, role models.UserRole) error
	GetSettings(userID string, role models.UserRole) (*dto.NotificationSettingsResponse, error)
	GetAllSettings(userID string) ([]*dto.NotificationSettingsResponse, error)
	UpdateSettings(userID string, role models.UserRole, req *dto.UpdateNotificationSettingsRequest) (*dto.NotificationSettingsResponse, error)

	// Доменные триггеры
	NotifyApplicationSubmitted(applicantID, jobPostID, jobTitle string) error
	NotifyApplicationReceived(companyUserID, jobPostID, jobTitle, applicantName string) error
	NotifyApplicationStatusChanged(applicantID, jobPostID, jobTitle string, status models.ApplicationStatus) error
	NotifyJobDeletedByAdmin(companyUserID, jobPostID, jobTitle string) error
	NotifyNewJobFromFollowedCompany(jobPostID string) (int, error)
	NotifyInquiryAnswered(userID, inquiryID, inquiryTitle string) error
	NotifyReportAnswered(userID, reportID, reportTitle string) error
	NotifyAdminInquiryCreated(inquiryID, inquiryTitle string) (int, error)
	NotifyAdminReportCreated(reportID, reportTitle string) (int, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	settingRepo      repositories.NotificationSettingRepository
	userRepo         repositories.UserRepository
	jobRepo          repositories.JobRepository
	events           EventPublisher
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	settingRepo repositories.NotificationSettingRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	events EventPublisher,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		settingRepo:      settingRepo,
		userRepo:         userRepo,
		jobRepo:          jobRepo,
		events:           events,
	}
}

// ---------------- Публикация ----------------

// Publish проводит кандидата через фильтр настроек и записывает уведомление.
// Отфильтрованный кандидат не ошибка: возвращается (nil, nil).
// Роль обязательна всегда, даже при принудительной доставке.
func (s *notificationService) Publish(candidate *dto.CandidateNotification) (*dto.NotificationResponse, error) {
	if candidate.Role == "" {
		return nil, apperrors.ErrNotificationRoleRequired
	}

	if !candidate.Force {
		allowed, err := s.isAllowed(candidate.UserID, candidate.Role, candidate.Type)
		if err != nil {
			return nil, apperrors.ErrDatabase(err, "notification")
		}
		if !allowed {
			return nil, nil
		}
	}

	notification, err := buildNotification(candidate)
	if err != nil {
		return nil, err
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return nil, apperrors.ErrDatabase(err, "notification")
	}

	s.emit(notification)

	return toNotificationResponse(notification), nil
}

// PublishBulk публикует пакет кандидатов. Некорректные и отфильтрованные
// кандидаты пропускаются, остальные пишутся одним батчем.
// Возвращает число записанных уведомлений.
func (s *notificationService) PublishBulk(candidates []*dto.CandidateNotification) (int, error) {
	var accepted []*models.Notification

	for _, candidate := range candidates {
		if candidate.Role == "" {
			logger.Warn("bulk notification candidate skipped: missing role",
				"user_id", candidate.UserID, "type", candidate.Type)
			continue
		}

		if !candidate.Force {
			allowed, err := s.isAllowed(candidate.UserID, candidate.Role, candidate.Type)
			if err != nil {
				logger.WithError(err).Warn("bulk notification candidate skipped: settings lookup failed",
					"user_id", candidate.UserID, "type", candidate.Type)
				continue
			}
			if !allowed {
				continue
			}
		}

		notification, err := buildNotification(candidate)
		if err != nil {
			logger.WithError(err).Warn("bulk notification candidate skipped: invalid payload",
				"user_id", candidate.UserID, "type", candidate.Type)
			continue
		}

		accepted = append(accepted, notification)
	}

	if len(accepted) == 0 {
		return 0, nil
	}

	if err := s.notificationRepo.CreateBulkNotifications(accepted); err != nil {
		return 0, apperrors.ErrDatabase(err, "notification")
	}

	for _, notification := range accepted {
		s.emit(notification)
	}

	return len(accepted), nil
}

// isAllowed решает, проходит ли тип уведомления фильтр настроек получателя.
// Отсутствие записи настроек или выключенный мастер-переключатель блокируют
// доставку целиком. Тип вне таблицы категорий проходит только после этих
// проверок: мастер-переключатель глушит и неизвестные типы.
func (s *notificationService) isAllowed(userID string, role models.UserRole, notificationType models.NotificationType) (bool, error) {
	setting, err := s.settingRepo.Get(userID, role)
	if err != nil {
		if err == repositories.ErrSettingsNotFound {
			return false, nil
		}
		return false, err
	}

	if !setting.AllNotifications {
		return false, nil
	}

	category, mapped := models.TypeCategory[notificationType]
	if !mapped {
		return true, nil
	}

	flags, err := decodeSettings(setting.Settings)
	if err != nil {
		return false, err
	}

	return flags[category], nil
}

// emit отправляет realtime-событие. Сбой доставки не влияет
// на результат публикации.
func (s *notificationService) emit(notification *models.Notification) {
	if s.events == nil {
		return
	}
	s.events.Publish(notification.UserID, EventName, toNotificationResponse(notification))
}

// ---------------- Лента пользователя ----------------

func (s *notificationService) GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 {
		criteria.PageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "notification")
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, toNotificationResponse(&notifications[i]))
	}

	totalPages := int(total) / criteria.PageSize
	if int(total)%criteria.PageSize > 0 {
		totalPages++
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    totalPages,
	}, nil
}

// GetNotification отдает одно уведомление пользователя.
// Чужое уведомление неотличимо от несуществующего.
func (s *notificationService) GetNotification(userID, notificationID string) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if err == repositories.ErrNotificationNotFound {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.ErrDatabase(err, "notification")
	}

	if notification.UserID != userID {
		return nil, apperrors.ErrNotificationNotFound
	}

	return toNotificationResponse(notification), nil
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.ErrDatabase(err, "notification")
	}
	return count, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	err := s.notificationRepo.MarkAsRead(userID, notificationID)
	if err == repositories.ErrNotificationNotFound {
		return apperrors.ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	err := s.notificationRepo.DeleteNotification(userID, notificationID)
	if err == repositories.ErrNotificationNotFound {
		return apperrors.ErrNotificationNotFound
	}
	return err
}

func (s *notificationService) DeleteUserNotifications(userID string) error {
	return s.notificationRepo.DeleteUserNotifications(userID)
}

// ---------------- Отзыв уведомлений ----------------

// CancelByJobPost удаляет уведомления, привязанные к удаленной вакансии.
// Напоминания о дедлайнах не трогаются: они остаются полезной историей.
func (s *notificationService) CancelByJobPost(jobPostID string) (int64, error) {
	types := []models.NotificationType{
		models.NotificationApplicationStatusUpdate,
		models.NotificationEmpApplicationReceived,
	}

	deleted, err := s.notificationRepo.DeleteByJobPost(jobPostID, types)
	if err != nil {
		return 0, apperrors.ErrDatabase(err, "notification")
	}
	return deleted, nil
}

func (s *notificationService) CancelByInquiryOrReport(targetID string) (int64, error) {
	types := []models.NotificationType{
		models.NotificationAdminInquiryCreated,
		models.NotificationAdminReportCreated,
		models.NotificationInquiryReportAnswered,
	}

	deleted, err := s.notificationRepo.DeleteByInquiryOrReport(targetID, types)
	if err != nil {
		return 0, apperrors.ErrDatabase(err, "notification")
	}
	return deleted, nil
}

func (s *notificationService) CleanOldNotifications(days int) error {
	return s.notificationRepo.CleanOldNotifications(days)
}

// ---------------- Настройки ----------------

// EnsureSettings создает запись настроек с дефолтами роли, если ее еще нет.
// Вызывается после успешного входа.
func (s *notificationService) EnsureSettings(userID string, role models.UserRole) error {
	_, err := s.settingRepo.Get(userID, role)
	if err == nil {
		return nil
	}
	if err != repositories.ErrSettingsNotFound {
		return apperrors.ErrDatabase(err, "notification")
	}

	setting, err := defaultSetting(userID, role)
	if err != nil {
		return err
	}

	if err := s.settingRepo.Upsert(setting); err != nil {
		return apperrors.ErrDatabase(err, "notification")
	}
	return nil
}

// GetSettings самовосстанавливающийся: отсутствующая запись синтезируется
// из дефолтов роли и сохраняется перед возвратом.
func (s *notificationService) GetSettings(userID string, role models.UserRole) (*dto.NotificationSettingsResponse, error) {
	setting, err := s.settingRepo.Get(userID, role)
	if err != nil {
		if err != repositories.ErrSettingsNotFound {
			return nil, apperrors.ErrDatabase(err, "notification")
		}

		setting, err = defaultSetting(userID, role)
		if err != nil {
			return nil, err
		}
		if err := s.settingRepo.Upsert(setting); err != nil {
			return nil, apperrors.ErrDatabase(err, "notification")
		}
	}

	return toSettingsResponse(setting)
}

// GetAllSettings отдает настройки всех ролей пользователя. Роли без записи
// не синтезируются: их настройки создаются при первом входе под этой ролью.
func (s *notificationService) GetAllSettings(userID string) ([]*dto.NotificationSettingsResponse, error) {
	settings, err := s.settingRepo.GetAllForUser(userID)
	if err != nil {
		return nil, apperrors.ErrDatabase(err, "notification")
	}

	responses := make([]*dto.NotificationSettingsResponse, 0, len(settings))
	for i := range settings {
		response, err := toSettingsResponse(&settings[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *notificationService) UpdateSettings(userID string, role models.UserRole, req *dto.UpdateNotificationSettingsRequest) (*dto.NotificationSettingsResponse, error) {
	setting, err := s.settingRepo.Get(userID, role)
	if err != nil {
		if err != repositories.ErrSettingsNotFound {
			return nil, apperrors.ErrDatabase(err, "notification")
		}
		setting, err = defaultSetting(userID, role)
		if err != nil {
			return nil, err
		}
	}

	if req.AllNotifications != nil {
		setting.AllNotifications = *req.AllNotifications
	}

	if len(req.Settings) > 0 {
		flags, err := decodeSettings(setting.Settings)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		for key, value := range req.Settings {
			flags[key] = value
		}

		encoded, err := json.Marshal(flags)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		setting.Settings = datatypes.JSON(encoded)
	}

	if err := s.settingRepo.Upsert(setting); err != nil {
		return nil, apperrors.ErrDatabase(err, "notification")
	}

	return toSettingsResponse(setting)
}

// ---------------- Доменные триггеры ----------------

// NotifyApplicationSubmitted - подтверждение собственного действия,
// поэтому доставляется принудительно.
func (s *notificationService) NotifyApplicationSubmitted(applicantID, jobPostID, jobTitle string) error {
	_, err := s.Publish(&dto.CandidateNotification{
		UserID:  applicantID,
		Role:    models.UserRoleMember,
		Type:    models.NotificationApplicationStatusUpdate,
		Title:   "Application submitted",
		Message: fmt.Sprintf("Your application for '%s' has been submitted", jobTitle),
		Metadata: map[string]interface{}{
			"job_post_id": jobPostID,
			"job_title":   jobTitle,
		},
		Force: true,
	})
	return err
}

func (s *notificationService) NotifyApplicationReceived(companyUserID, jobPostID, jobTitle, applicantName string) error {
	_, err := s.Publish(&dto.CandidateNotification{
		UserID:  companyUserID,
		Role:    models.UserRoleCompany,
		Type:    models.NotificationEmpApplicationReceived,
		Title:   "New application received",
		Message: fmt.Sprintf("%s applied for '%s'", applicantName, jobTitle),
		Metadata: map[string]interface{}{
			"job_post_id": jobPostID,
			"job_title":   jobTitle,
		},
	})
	return err
}

func (s *notificationService) NotifyApplicationStatusChanged(applicantID, jobPostID, jobTitle string, status models.ApplicationStatus) error {
	_, err := s.Publish(&dto.CandidateNotification{
		UserID:  applicantID,
		Role:    models.UserRoleMember,
		Type:    models.NotificationApplicationStatusUpdate,
		Title:   "Application status updated",
		Message: fmt.Sprintf("Your application for '%s' is now '%s'", jobTitle, status),
		Metadata: map[string]interface{}{
			"job_post_id": jobPostID,
			"job_title":   jobTitle,
			"status":      string(status),
		},
	})
	return err
}

func (s *notificationService) NotifyJobDeletedByAdmin(companyUserID, jobPostID, jobTitle string) error {
	_, err := s.Publish(&dto.CandidateNotification{
		UserID:  companyUserID,
		Role:    models.UserRoleCompany,
		Type:    models.NotificationEmpJobDeletedByAdmin,
		Title:   "Job post removed",
		Message: fmt.Sprintf("Your job post '%s' was removed by an administrator", jobTitle),
		Metadata: map[string]interface{}{
			"job_post_id": jobPostID,
			"job_title":   jobTitle,
		},
	})
	return err
}

// NotifyNewJobFromFollowedCompany рассылает анонс новой вакансии
// всем подписчикам компании. Заголовок и имя компании берутся из самой
// вакансии, а не из аргументов вызывающего.
func (s *notificationService) NotifyNewJobFromFollowedCompany(jobPostID string) (int, error) {
	job, err := s.jobRepo.FindJobPostByID(jobPostID)
	if err != nil {
		if err == repositories.ErrJobPostNotFound {
			return 0, apperrors.ErrNotFound(err)
		}
		return 0, apperrors.ErrDatabase(err, "notification")
	}

	followerIDs, err := s.jobRepo.FindFollowerUserIDs(job.UserID)
	if err != nil {
		return 0, apperrors.ErrDatabase(err, "notification")
	}

	candidates := make([]*dto.CandidateNotification, 0, len(followerIDs))
	for _, followerID := range followerIDs {
		candidates = append(candidates, &dto.CandidateNotification{
			UserID:  followerID,
			Role:    models.UserRoleMember,
			Type:    models.NotificationNewJobFromFavoriteCompany,
			Title:   "New job from a company you follow",
			Message: fmt.Sprintf("%s posted a new job: '%s'", job.CompanyName, job.Title),
			Metadata: map[string]interface{}{
				"job_post_id":  job.ID,
				"job_title":    job.Title,
				"company_name": job.CompanyName,
			},
		})
	}

	return s.PublishBulk(candidates)
}

// NotifyInquiryAnswered адресует обе роли пользователя: кто из них
// реально получит уведомление, решают настройки каждой роли.
func (s *notificationService) NotifyInquiryAnswered(userID, inquiryID, inquiryTitle string) error {
	_, err := s.PublishBulk(answeredCandidates(userID, models.NotificationInquiryReportAnswered,
		"Your inquiry has been answered",
		fmt.Sprintf("An answer was posted to your inquiry '%s'", inquiryTitle),
		map[string]interface{}{"inquiry_id": inquiryID},
	))
	return err
}

func (s *notificationService) NotifyReportAnswered(userID, reportID, reportTitle string) error {
	_, err := s.PublishBulk(answeredCandidates(userID, models.NotificationInquiryReportAnswered,
		"Your report has been answered",
		fmt.Sprintf("An answer was posted to your report '%s'", reportTitle),
		map[string]interface{}{"report_id": reportID},
	))
	return err
}

func (s *notificationService) NotifyAdminInquiryCreated(inquiryID, inquiryTitle string) (int, error) {
	return s.notifyAdmins(models.NotificationAdminInquiryCreated,
		"New inquiry",
		fmt.Sprintf("A new inquiry was created: '%s'", inquiryTitle),
		map[string]interface{}{"inquiry_id": inquiryID},
	)
}

func (s *notificationService) NotifyAdminReportCreated(reportID, reportTitle string) (int, error) {
	return s.notifyAdmins(models.NotificationAdminReportCreated,
		"New report",
		fmt.Sprintf("A new report was created: '%s'", reportTitle),
		map[string]interface{}{"report_id": reportID},
	)
}

func (s *notificationService) notifyAdmins(notificationType models.NotificationType, title, message string, metadata map[string]interface{}) (int, error) {
	adminIDs, err := s.userRepo.FindAdminUserIDs()
	if err != nil {
		return 0, apperrors.ErrDatabase(err, "notification")
	}

	candidates := make([]*dto.CandidateNotification, 0, len(adminIDs))
	for _, adminID := range adminIDs {
		candidates = append(candidates, &dto.CandidateNotification{
			UserID:   adminID,
			Role:     models.UserRoleAdmin,
			Type:     notificationType,
			Title:    title,
			Message:  message,
			Metadata: metadata,
		})
	}

	return s.PublishBulk(candidates)
}

// ---------------- Helpers ----------------

func answeredCandidates(userID string, notificationType models.NotificationType, title, message string, metadata map[string]interface{}) []*dto.CandidateNotification {
	return []*dto.CandidateNotification{
		{UserID: userID, Role: models.UserRoleMember, Type: notificationType, Title: title, Message: message, Metadata: metadata},
		{UserID: userID, Role: models.UserRoleCompany, Type: notificationType, Title: title, Message: message, Metadata: metadata},
	}
}

func buildNotification(candidate *dto.CandidateNotification) (*models.Notification, error) {
	var metadataJSON datatypes.JSON
	if candidate.Metadata != nil {
		encoded, err := json.Marshal(candidate.Metadata)
		if err != nil {
			return nil, apperrors.InternalError(fmt.Errorf("failed to marshal notification metadata: %w", err))
		}
		metadataJSON = datatypes.JSON(encoded)
	}

	return &models.Notification{
		UserID:   candidate.UserID,
		Type:     candidate.Type,
		Title:    candidate.Title,
		Message:  candidate.Message,
		Metadata: metadataJSON,
	}, nil
}

func defaultSetting(userID string, role models.UserRole) (*models.NotificationSetting, error) {
	encoded, err := json.Marshal(models.DefaultSettingsForRole(role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &models.NotificationSetting{
		UserID:           userID,
		Role:             role,
		AllNotifications: true,
		Settings:         datatypes.JSON(encoded),
	}, nil
}

func decodeSettings(raw datatypes.JSON) (map[string]bool, error) {
	flags := make(map[string]bool)
	if len(raw) == 0 {
		return flags, nil
	}
	if err := json.Unmarshal(raw, &flags); err != nil {
		return nil, err
	}
	return flags, nil
}

func toNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	var metadata map[string]interface{}
	if len(notification.Metadata) > 0 {
		// Метаданные пишутся валидным JSON, ошибка разбора здесь невозможна
		_ = json.Unmarshal(notification.Metadata, &metadata)
	}

	return &dto.NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Type:      string(notification.Type),
		Title:     notification.Title,
		Message:   notification.Message,
		Metadata:  metadata,
		IsRead:    notification.IsRead,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}

func toSettingsResponse(setting *models.NotificationSetting) (*dto.NotificationSettingsResponse, error) {
	flags, err := decodeSettings(setting.Settings)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.NotificationSettingsResponse{
		Role:             setting.Role,
		AllNotifications: setting.AllNotifications,
		Settings:         flags,
	}, nil
}
