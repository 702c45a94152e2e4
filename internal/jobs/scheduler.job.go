package jobs

import (
	"restocoach/config"
	"restocoach/internal/services"
	"restocoach/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	appServices services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	streakResetJob := NewStreakResetJob(appServices.Gamification, services.DailyStreakReset)
	if err := schedulerService.AddJob(streakResetJob); err != nil {
		return log.Err("failed to register streak reset job", err)
	}
	log.Info("Registered streak reset job", "schedule", "daily 00:05")

	missionAssignmentJob := NewMissionAssignmentJob(appServices.Mission, services.DailyMissionAssignment)
	if err := schedulerService.AddJob(missionAssignmentJob); err != nil {
		return log.Err("failed to register mission assignment job", err)
	}
	log.Info("Registered mission assignment job", "schedule", "daily 05:00")

	missionReminderJob := NewMissionReminderJob(appServices.Notification, services.Hourly)
	if err := schedulerService.AddJob(missionReminderJob); err != nil {
		return log.Err("failed to register mission reminder job", err)
	}
	log.Info("Registered mission reminder job", "schedule", "hourly")

	return nil
}

func logBatch(log logger.Logger, message string, result types.BatchResult) {
	log.Info(message,
		"processed", result.Processed,
		"succeeded", result.Succeeded,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
}
