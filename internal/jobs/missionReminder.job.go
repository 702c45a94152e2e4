package jobs

import (
	"context"
	"restocoach/internal/services"
	"restocoach/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type ReminderSender interface {
	SendMissionReminders(ctx context.Context) (types.BatchResult, error)
}

// MissionReminderJob runs hourly; the service decides which users are due at the current hour.
type MissionReminderJob struct {
	notifications ReminderSender
	log           logger.Logger
	schedule      services.Schedule
}

func NewMissionReminderJob(notifications ReminderSender, schedule services.Schedule) *MissionReminderJob {
	return &MissionReminderJob{
		notifications: notifications,
		log:           logger.New("missionReminderJob"),
		schedule:      schedule,
	}
}

func (j *MissionReminderJob) Name() string {
	return "MissionReminder"
}

func (j *MissionReminderJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	result, err := j.notifications.SendMissionReminders(ctx)
	if err != nil {
		return log.Err("mission reminders failed", err)
	}

	if result.Processed > 0 {
		logBatch(log, "Mission reminders sent", result)
	}
	return nil
}

func (j *MissionReminderJob) Schedule() services.Schedule {
	return j.schedule
}
