package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"restocoach/config"
	"restocoach/internal/services"
	"restocoach/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBatch struct {
	calls  int
	result types.BatchResult
	err    error
}

func (f *fakeBatch) run() (types.BatchResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeBatch) ResetLapsedStreaks(context.Context) (types.BatchResult, error) { return f.run() }
func (f *fakeBatch) AssignForAllUsers(context.Context) (types.BatchResult, error)  { return f.run() }
func (f *fakeBatch) SendMissionReminders(context.Context) (types.BatchResult, error) {
	return f.run()
}

func TestJobs_ExecuteDelegates(t *testing.T) {
	fake := &fakeBatch{result: types.BatchResult{Processed: 2, Succeeded: 2}}

	jobs := []services.Job{
		NewStreakResetJob(fake, services.DailyStreakReset),
		NewMissionAssignmentJob(fake, services.DailyMissionAssignment),
		NewMissionReminderJob(fake, services.Hourly),
	}

	for _, job := range jobs {
		require.NoError(t, job.Execute(context.Background()), job.Name())
	}
	assert.Equal(t, 3, fake.calls)
}

func TestJobs_ExecuteReturnsFailure(t *testing.T) {
	fake := &fakeBatch{err: errors.New("database unavailable")}

	err := NewMissionAssignmentJob(fake, services.DailyMissionAssignment).Execute(context.Background())
	assert.Error(t, err)
}

func TestRegisterAllJobs(t *testing.T) {
	scheduler := services.NewSchedulerService(time.UTC)
	appServices := services.Service{
		Gamification: &services.GamificationService{},
		Mission:      &services.MissionService{},
		Notification: &services.NotificationService{},
	}

	require.NoError(t, RegisterAllJobs(scheduler, config.Config{SchedulerEnabled: false}, appServices))
	assert.Equal(t, 0, scheduler.GetJobCount())

	require.NoError(t, RegisterAllJobs(scheduler, config.Config{SchedulerEnabled: true}, appServices))
	assert.Equal(t, []string{"StreakReset", "MissionAssignment", "MissionReminder"}, scheduler.JobNames())
}
