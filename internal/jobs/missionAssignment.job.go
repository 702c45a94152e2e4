package jobs

import (
	"context"
	"restocoach/internal/services"
	"restocoach/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type MissionAssigner interface {
	AssignForAllUsers(ctx context.Context) (types.BatchResult, error)
}

// MissionAssignmentJob builds the day's missions ahead of the first user request.
type MissionAssignmentJob struct {
	missions MissionAssigner
	log      logger.Logger
	schedule services.Schedule
}

func NewMissionAssignmentJob(missions MissionAssigner, schedule services.Schedule) *MissionAssignmentJob {
	log := logger.New("missionAssignmentJob")
	log.Info("Creating new mission assignment job", "schedule", schedule)

	return &MissionAssignmentJob{
		missions: missions,
		log:      log,
		schedule: schedule,
	}
}

func (j *MissionAssignmentJob) Name() string {
	return "MissionAssignment"
}

func (j *MissionAssignmentJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	result, err := j.missions.AssignForAllUsers(ctx)
	if err != nil {
		return log.Err("mission assignment failed", err)
	}

	logBatch(log, "Mission assignment completed", result)
	return nil
}

func (j *MissionAssignmentJob) Schedule() services.Schedule {
	return j.schedule
}
