package workers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobstreet_backend/internal/config"
	"jobstreet_backend/internal/logger"
	"jobstreet_backend/internal/services"
)

// DeadlineWorker запускает ежедневные задачи движка уведомлений:
// два скана дедлайнов и чистку старых уведомлений. Каждая задача
// срабатывает в свое настенное время в зоне планировщика.
type DeadlineWorker struct {
	deadlines     services.DeadlineAlertService
	notifications services.NotificationService
	cfg           *config.Config
	location      *time.Location
}

func NewDeadlineWorker(
	deadlines services.DeadlineAlertService,
	notifications services.NotificationService,
	cfg *config.Config,
	location *time.Location,
) *DeadlineWorker {
	if location == nil {
		location = time.UTC
	}
	return &DeadlineWorker{
		deadlines:     deadlines,
		notifications: notifications,
		cfg:           cfg,
		location:      location,
	}
}

// Start запускает фоновые задачи движка уведомлений
func (w *DeadlineWorker) Start(ctx context.Context) {
	go w.runDaily(ctx, "favorite_deadline_scan", w.cfg.Scheduler.FavoriteDeadlineAt, func(now time.Time) error {
		return w.deadlines.RunFavoriteDeadlineScan(now)
	})

	go w.runDaily(ctx, "company_deadline_scan", w.cfg.Scheduler.CompanyDeadlineAt, func(now time.Time) error {
		return w.deadlines.RunCompanyDeadlineScan(now)
	})

	go w.runDaily(ctx, "notification_cleanup", w.cfg.Scheduler.HousekeepingAt, func(now time.Time) error {
		return w.notifications.CleanOldNotifications(w.cfg.Scheduler.RetentionDays)
	})
}

// runDaily выполняет задачу каждый день в настенное время at ("HH:MM").
func (w *DeadlineWorker) runDaily(ctx context.Context, name, at string, task func(now time.Time) error) {
	hour, minute, err := parseWallClock(at)
	if err != nil {
		logger.Error("daily task disabled: bad schedule time", "task", name, "at", at, "error", err.Error())
		return
	}

	for {
		// Вычисляем время до следующего срабатывания
		now := time.Now().In(w.location)
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, w.location)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("daily task stopped", "task", name)
			return
		case fired := <-timer.C:
			logger.WorkerLog("deadline_worker", name, task(fired))
		}
	}
}

func parseWallClock(at string) (hour, minute int, err error) {
	parts := strings.SplitN(at, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", at)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad hour in %q", at)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute in %q", at)
	}

	return hour, minute, nil
}
