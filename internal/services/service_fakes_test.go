package services

import (
	"fmt"
	"time"

	"jobstreet_backend/internal/models"
	"jobstreet_backend/internal/repositories"
)

// Фейковые реализации репозиториев для юнит-тестов сервисов.
// Хранят все в памяти и позволяют подсовывать ошибки.

type fakeNotificationStore struct {
	created   []*models.Notification
	createErr error

	markReadErr     error
	markedRead      []string
	markedAllFor    []string
	deleted         []string
	deletedUsers    []string
	deletedByJob    []string
	deletedByTarget []string
	cleanedDays     []int

	unread int64
	seq    int
}

func (f *fakeNotificationStore) nextID() string {
	f.seq++
	return fmt.Sprintf("n-%d", f.seq)
}

func (f *fakeNotificationStore) CreateNotification(n *models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = f.nextID()
	n.CreatedAt = time.Now()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationStore) CreateBulkNotifications(ns []*models.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, n := range ns {
		n.ID = f.nextID()
		n.CreatedAt = time.Now()
		f.created = append(f.created, n)
	}
	return nil
}

func (f *fakeNotificationStore) FindNotificationByID(id string) (*models.Notification, error) {
	for _, n := range f.created {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (f *fakeNotificationStore) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range f.created {
		if n.UserID != userID {
			continue
		}
		if criteria.UnreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationStore) MarkAsRead(userID, notificationID string) error {
	if f.markReadErr != nil {
		return f.markReadErr
	}
	f.markedRead = append(f.markedRead, notificationID)
	return nil
}

func (f *fakeNotificationStore) MarkAllAsRead(userID string) error {
	f.markedAllFor = append(f.markedAllFor, userID)
	return nil
}

func (f *fakeNotificationStore) DeleteNotification(userID, notificationID string) error {
	f.deleted = append(f.deleted, notificationID)
	return nil
}

func (f *fakeNotificationStore) DeleteUserNotifications(userID string) error {
	f.deletedUsers = append(f.deletedUsers, userID)
	return nil
}

func (f *fakeNotificationStore) DeleteByJobPost(jobPostID string, types []models.NotificationType) (int64, error) {
	f.deletedByJob = append(f.deletedByJob, jobPostID)
	return int64(len(types)), nil
}

func (f *fakeNotificationStore) DeleteByInquiryOrReport(targetID string, types []models.NotificationType) (int64, error) {
	f.deletedByTarget = append(f.deletedByTarget, targetID)
	return int64(len(types)), nil
}

func (f *fakeNotificationStore) GetUnreadCount(userID string) (int64, error) {
	return f.unread, nil
}

func (f *fakeNotificationStore) CleanOldNotifications(days int) error {
	f.cleanedDays = append(f.cleanedDays, days)
	return nil
}

type fakeSettingStore struct {
	settings map[string]*models.NotificationSetting
	getErr   error
	upserts  int
}

func newFakeSettingStore() *fakeSettingStore {
	return &fakeSettingStore{settings: make(map[string]*models.NotificationSetting)}
}

func settingKey(userID string, role models.UserRole) string {
	return userID + "/" + string(role)
}

func (f *fakeSettingStore) Get(userID string, role models.UserRole) (*models.NotificationSetting, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	setting, ok := f.settings[settingKey(userID, role)]
	if !ok {
		return nil, repositories.ErrSettingsNotFound
	}
	copied := *setting
	return &copied, nil
}

func (f *fakeSettingStore) GetAllForUser(userID string) ([]models.NotificationSetting, error) {
	var out []models.NotificationSetting
	for _, setting := range f.settings {
		if setting.UserID == userID {
			out = append(out, *setting)
		}
	}
	return out, nil
}

func (f *fakeSettingStore) Upsert(setting *models.NotificationSetting) error {
	f.upserts++
	copied := *setting
	f.settings[settingKey(setting.UserID, setting.Role)] = &copied
	return nil
}

type fakeUserStore struct {
	users    map[string]*models.User
	byEmail  map[string]*models.User
	adminIDs []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (f *fakeUserStore) Create(user *models.User) error {
	f.users[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) FindByID(id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindAdminUserIDs() ([]string, error) {
	return f.adminIDs, nil
}

type fakeJobStore struct {
	jobPosts     map[string]*models.JobPost
	favoriteHits map[string][]repositories.FavoriteJobHit
	companyHits  map[string][]repositories.CompanyJobHit
	favoriteErr  map[string]error

	requestedFavoriteDates []string
	requestedCompanyDates  []string

	followers map[string][]string
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{
		jobPosts:     make(map[string]*models.JobPost),
		favoriteHits: make(map[string][]repositories.FavoriteJobHit),
		companyHits:  make(map[string][]repositories.CompanyJobHit),
		favoriteErr:  make(map[string]error),
		followers:    make(map[string][]string),
	}
}

func (f *fakeJobStore) FindJobPostByID(id string) (*models.JobPost, error) {
	job, ok := f.jobPosts[id]
	if !ok {
		return nil, repositories.ErrJobPostNotFound
	}
	return job, nil
}

func (f *fakeJobStore) FindFavoriteJobsByDeadline(deadline time.Time) ([]repositories.FavoriteJobHit, error) {
	key := deadline.Format("2006-01-02")
	f.requestedFavoriteDates = append(f.requestedFavoriteDates, key)
	if err := f.favoriteErr[key]; err != nil {
		return nil, err
	}
	return f.favoriteHits[key], nil
}

func (f *fakeJobStore) FindCompanyJobsByDeadline(deadline time.Time) ([]repositories.CompanyJobHit, error) {
	key := deadline.Format("2006-01-02")
	f.requestedCompanyDates = append(f.requestedCompanyDates, key)
	return f.companyHits[key], nil
}

func (f *fakeJobStore) FindFollowerUserIDs(companyUserID string) ([]string, error) {
	return f.followers[companyUserID], nil
}

type publishedEvent struct {
	UserID  string
	Event   string
	Payload interface{}
}

type fakeEventPublisher struct {
	events []publishedEvent
}

func (f *fakeEventPublisher) Publish(userID, event string, payload interface{}) {
	f.events = append(f.events, publishedEvent{UserID: userID, Event: event, Payload: payload})
}
