package jobs

import (
	"context"
	"restocoach/internal/services"
	"restocoach/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type StreakResetter interface {
	ResetLapsedStreaks(ctx context.Context) (types.BatchResult, error)
}

// StreakResetJob zeroes streaks whose last activity is older than yesterday.
type StreakResetJob struct {
	gamification StreakResetter
	log          logger.Logger
	schedule     services.Schedule
}

func NewStreakResetJob(gamification StreakResetter, schedule services.Schedule) *StreakResetJob {
	log := logger.New("streakResetJob")
	log.Info("Creating new streak reset job", "schedule", schedule)

	return &StreakResetJob{
		gamification: gamification,
		log:          log,
		schedule:     schedule,
	}
}

func (j *StreakResetJob) Name() string {
	return "StreakReset"
}

func (j *StreakResetJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	result, err := j.gamification.ResetLapsedStreaks(ctx)
	if err != nil {
		return log.Err("streak reset failed", err)
	}

	logBatch(log, "Streak reset completed", result)
	return nil
}

func (j *StreakResetJob) Schedule() services.Schedule {
	return j.schedule
}
