package services

import (
	"context"
	"fmt"
	txContext "restocoach/internal/context"
	"restocoach/internal/database"
	"restocoach/internal/events"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"
	"restocoach/internal/types"
	"restocoach/internal/utils"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	REMINDER_DEDUPE_PREFIX = "reminder"
	REMINDER_DEDUPE_EXPIRY = 26 * time.Hour
	DEFAULT_NOTIFICATIONS  = 30
	MAX_NOTIFICATIONS      = 100
)

// Notifier is the slice of NotificationService the engines depend on.
type Notifier interface {
	Notify(
		ctx context.Context,
		userID uuid.UUID,
		kind NotificationKind,
		title, body string,
		data map[string]any,
	) error
}

// Dispatcher delivers a persisted notification to connected clients.
type Dispatcher interface {
	Dispatch(ctx context.Context, notification *Notification) error
}

type EventBusDispatcher struct {
	bus *events.EventBus
}

func NewEventBusDispatcher(bus *events.EventBus) *EventBusDispatcher {
	return &EventBusDispatcher{bus: bus}
}

func (d *EventBusDispatcher) Dispatch(ctx context.Context, notification *Notification) error {
	userID := notification.UserID
	return d.bus.Publish(ctx, events.NOTIFICATION_CHANNEL, events.Event{
		Type:   events.NOTIFICATION,
		UserID: &userID,
		Data: map[string]any{
			"id":    notification.ID.String(),
			"kind":  notification.Kind,
			"title": notification.Title,
			"body":  notification.Body,
			"data":  map[string]any(notification.Data),
		},
	})
}

type NotificationService struct {
	repo        repositories.NotificationRepository
	missionRepo repositories.MissionRepository
	db          *gorm.DB
	dispatcher  Dispatcher
	keyValue    database.KeyValueStore
	calendar    *utils.Calendar
	defaultHour int
	log         logger.Logger
}

func NewNotificationService(
	repos repositories.Repository,
	db *gorm.DB,
	dispatcher Dispatcher,
	keyValue database.KeyValueStore,
	calendar *utils.Calendar,
	defaultHour int,
) *NotificationService {
	return &NotificationService{
		repo:        repos.Notification,
		missionRepo: repos.Mission,
		db:          db,
		dispatcher:  dispatcher,
		keyValue:    keyValue,
		calendar:    calendar,
		defaultHour: defaultHour,
		log:         logger.New("notificationService"),
	}
}

// Notify persists the notification first, joining any transaction carried by ctx.
// Dispatch failures only cost live delivery.
func (s *NotificationService) Notify(
	ctx context.Context,
	userID uuid.UUID,
	kind NotificationKind,
	title, body string,
	data map[string]any,
) error {
	log := s.log.Function("Notify")

	notification := &Notification{
		UserID: userID,
		Kind:   kind,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	if err := s.repo.Create(ctx, txContext.DB(ctx, s.db), notification); err != nil {
		return log.Err("failed to store notification", err, "userID", userID, "kind", kind)
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(ctx, notification); err != nil {
			log.Warn("failed to dispatch notification", "userID", userID, "kind", kind, "error", err)
		}
	}

	return nil
}

func (s *NotificationService) ListNotifications(
	ctx context.Context,
	userID uuid.UUID,
	unreadOnly bool,
	limit int,
) ([]*Notification, error) {
	if limit <= 0 {
		limit = DEFAULT_NOTIFICATIONS
	}
	if limit > MAX_NOTIFICATIONS {
		limit = MAX_NOTIFICATIONS
	}

	return s.repo.ListForUser(ctx, s.db, userID, unreadOnly, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (bool, error) {
	return s.repo.MarkRead(ctx, s.db, userID, notificationID, s.calendar.Now())
}

// SendMissionReminders notifies users whose recommended mission is still pending when the
// current regional hour matches the mission's reminder hour. Each user is reminded once a day.
func (s *NotificationService) SendMissionReminders(ctx context.Context) (types.BatchResult, error) {
	log := s.log.Function("SendMissionReminders")

	var result types.BatchResult
	now := s.calendar.Now()
	today := s.calendar.Today()

	missions, err := s.missionRepo.GetPendingRecommendedForDay(ctx, s.db, today)
	if err != nil {
		return result, log.Err("failed to load pending missions", err, "day", today)
	}

	for _, mission := range missions {
		result.Processed++

		hour := s.defaultHour
		if mission.Template != nil {
			hour = mission.Template.ReminderHour(s.defaultHour)
		}
		if hour != now.Hour() {
			result.Skipped++
			continue
		}

		key := fmt.Sprintf("%s:%s:%s", REMINDER_DEDUPE_PREFIX, mission.UserID, today)
		stored, err := s.keyValue.SetNX(ctx, key, mission.ID.String(), REMINDER_DEDUPE_EXPIRY)
		if err != nil {
			log.Warn("failed to record reminder marker", "userID", mission.UserID, "error", err)
			result.Failed++
			continue
		}
		if !stored {
			result.Skipped++
			continue
		}

		title := "Today's mission is waiting"
		if mission.Template != nil {
			title = mission.Template.Title
		}
		if err := s.Notify(ctx, mission.UserID, NotificationKindMissionReminder, title,
			"Your recommended mission for today is still open.",
			map[string]any{"missionId": mission.ID.String(), "day": string(today)},
		); err != nil {
			if err := s.keyValue.Delete(ctx, key); err != nil {
				log.Warn("failed to release reminder marker", "userID", mission.UserID, "error", err)
			}
			result.Failed++
			continue
		}

		result.Succeeded++
	}

	log.Info("mission reminders sent",
		"processed", result.Processed,
		"sent", result.Succeeded,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}
