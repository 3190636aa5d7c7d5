package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jobstreet_backend/internal/models"
	"jobstreet_backend/internal/repositories"
)

func newTestDeadlineService(t *testing.T) (DeadlineAlertService, *fakeNotificationStore, *fakeSettingStore, *fakeJobStore, *time.Location) {
	t.Helper()

	location, err := time.LoadLocation("Asia/Seoul")
	assert.NoError(t, err)

	notifications := &fakeNotificationStore{}
	settings := newFakeSettingStore()
	users := newFakeUserStore()
	jobs := newFakeJobStore()

	engine := NewNotificationService(notifications, settings, users, jobs, nil)
	service := NewDeadlineAlertService(jobs, engine, location)

	return service, notifications, settings, jobs, location
}

// fixedNow - полдень 15 марта 2025 в Сеуле
func fixedNow(t *testing.T, location *time.Location) time.Time {
	t.Helper()
	return time.Date(2025, time.March, 15, 12, 0, 0, 0, location)
}

func allowDeadlines(t *testing.T, settings *fakeSettingStore, userID string, role models.UserRole, key string) {
	t.Helper()
	setting := storedSetting(userID, role, true, map[string]bool{key: true})
	assert.NoError(t, settings.Upsert(setting))
}

func TestFavoriteDeadlineScan_QueriesAllOffsets(t *testing.T) {
	service, _, _, jobs, location := newTestDeadlineService(t)

	assert.NoError(t, service.RunFavoriteDeadlineScan(fixedNow(t, location)))

	// D-7, D-1 и D+1 относительно 2025-03-15
	assert.Equal(t, []string{"2025-03-22", "2025-03-16", "2025-03-14"}, jobs.requestedFavoriteDates)
}

func TestFavoriteDeadlineScan_PublishesWithMetadata(t *testing.T) {
	service, store, settings, jobs, location := newTestDeadlineService(t)

	allowDeadlines(t, settings, "u1", models.UserRoleMember, models.SettingFavoriteJobDeadline)

	deadline := time.Date(2025, time.March, 16, 0, 0, 0, 0, location)
	jobs.favoriteHits["2025-03-16"] = []repositories.FavoriteJobHit{
		{UserID: "u1", JobPostID: "j1", JobTitle: "Backend Engineer", CompanyName: "Acme Corp", Deadline: deadline},
	}

	assert.NoError(t, service.RunFavoriteDeadlineScan(fixedNow(t, location)))

	assert.Len(t, store.created, 1)
	created := store.created[0]
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, models.NotificationFavoriteJobDeadline, created.Type)

	metadata := decodeMetadata(t, created)
	assert.Equal(t, "j1", metadata["job_post_id"])
	assert.Equal(t, "Acme Corp", metadata["company_name"])
	assert.Equal(t, "Backend Engineer", metadata["job_title"])
	assert.Equal(t, "2025-03-16", metadata["deadline"])
	assert.Equal(t, "D-1", metadata["when"])
}

func TestFavoriteDeadlineScan_OffsetFailureIsIsolated(t *testing.T) {
	service, store, settings, jobs, location := newTestDeadlineService(t)

	allowDeadlines(t, settings, "u1", models.UserRoleMember, models.SettingFavoriteJobDeadline)

	// Шаг D-7 падает, D-1 содержит совпадение
	jobs.favoriteErr["2025-03-22"] = errors.New("query timeout")
	jobs.favoriteHits["2025-03-16"] = []repositories.FavoriteJobHit{
		{UserID: "u1", JobPostID: "j1", JobTitle: "Backend Engineer", CompanyName: "Acme Corp",
			Deadline: time.Date(2025, time.March, 16, 0, 0, 0, 0, location)},
	}

	err := service.RunFavoriteDeadlineScan(fixedNow(t, location))

	assert.Error(t, err)
	// Остальные шаги отработали, уведомление D-1 опубликовано
	assert.Len(t, jobs.requestedFavoriteDates, 3)
	assert.Len(t, store.created, 1)
}

func TestFavoriteDeadlineScan_RespectsRecipientSettings(t *testing.T) {
	service, store, settings, jobs, location := newTestDeadlineService(t)

	// u1 разрешил напоминания, u2 выключил категорию
	allowDeadlines(t, settings, "u1", models.UserRoleMember, models.SettingFavoriteJobDeadline)
	denied := storedSetting("u2", models.UserRoleMember, true, map[string]bool{
		models.SettingFavoriteJobDeadline: false,
	})
	assert.NoError(t, settings.Upsert(denied))

	deadline := time.Date(2025, time.March, 16, 0, 0, 0, 0, location)
	jobs.favoriteHits["2025-03-16"] = []repositories.FavoriteJobHit{
		{UserID: "u1", JobPostID: "j1", JobTitle: "Backend Engineer", CompanyName: "Acme Corp", Deadline: deadline},
		{UserID: "u2", JobPostID: "j1", JobTitle: "Backend Engineer", CompanyName: "Acme Corp", Deadline: deadline},
	}

	assert.NoError(t, service.RunFavoriteDeadlineScan(fixedNow(t, location)))

	assert.Len(t, store.created, 1)
	assert.Equal(t, "u1", store.created[0].UserID)
}

func TestCompanyDeadlineScan_PublishesToOwner(t *testing.T) {
	service, store, settings, jobs, location := newTestDeadlineService(t)

	allowDeadlines(t, settings, "c1", models.UserRoleCompany, models.SettingEmpJobDeadline)

	deadline := time.Date(2025, time.March, 14, 0, 0, 0, 0, location)
	jobs.companyHits["2025-03-14"] = []repositories.CompanyJobHit{
		{OwnerUserID: "c1", JobPostID: "j1", JobTitle: "Backend Engineer", CompanyName: "Acme Corp", Deadline: deadline},
	}

	assert.NoError(t, service.RunCompanyDeadlineScan(fixedNow(t, location)))

	assert.Len(t, store.created, 1)
	assert.Equal(t, "c1", store.created[0].UserID)
	assert.Equal(t, models.NotificationEmpJobDeadline, store.created[0].Type)

	metadata := decodeMetadata(t, store.created[0])
	assert.Equal(t, "D+1", metadata["when"])
}

func TestDeadlineScan_DateComputedInSchedulerZone(t *testing.T) {
	service, _, _, jobs, _ := newTestDeadlineService(t)

	// 23:00 UTC 14 марта - это уже 15 марта в Сеуле
	utcEvening := time.Date(2025, time.March, 14, 23, 0, 0, 0, time.UTC)

	assert.NoError(t, service.RunFavoriteDeadlineScan(utcEvening))

	assert.Equal(t, []string{"2025-03-22", "2025-03-16", "2025-03-14"}, jobs.requestedFavoriteDates)
}

func decodeMetadata(t *testing.T, n *models.Notification) map[string]interface{} {
	t.Helper()
	metadata := make(map[string]interface{})
	assert.NoError(t, json.Unmarshal(n.Metadata, &metadata))
	return metadata
}
