package services

import (
	"testing"

	"restocoach/internal/database"
	. "restocoach/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScheduler struct {
	triggered []string
}

func (s *stubScheduler) TriggerJobByName(jobName string) error {
	switch jobName {
	case "StreakReset":
	case "MissionAssignment":
		return ErrJobRunning
	default:
		return ErrJobNotFound
	}
	s.triggered = append(s.triggered, jobName)
	return nil
}

func newAdminService(env *testEnv, scheduler JobScheduler) *AdminService {
	return NewAdminService(
		env.repos,
		env.db,
		NewTransactionService(database.NewWithSQL(env.db)),
		env.settings,
		nil,
		scheduler,
	)
}

func TestAdminService_CreateTemplateWritesAudit(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdminService(env, nil)
	actor := env.createUser(t)

	created, err := admin.CreateTemplate(env.ctx, actor.ID, &MissionTemplate{
		Type:     MissionTypeReel,
		Title:    "  Kitchen rush  ",
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kitchen rush", created.Title)

	entries, err := admin.ListAuditEntries(env.ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, AUDIT_CREATE, entries[0].Action)
	assert.Equal(t, created.ID.String(), entries[0].ResourceID)
	assert.Equal(t, actor.ID, entries[0].ActorID)
}

func TestAdminService_TemplateValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdminService(env, nil)

	_, err := admin.CreateTemplate(env.ctx, uuid.New(), &MissionTemplate{Type: "podcast", Title: "Talk"})
	assert.ErrorIs(t, err, ErrValidation)

	badTime := "25:00"
	_, err = admin.CreateTemplate(env.ctx, uuid.New(), &MissionTemplate{
		Type:             MissionTypePost,
		Title:            "Late post",
		NotificationTime: &badTime,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = admin.UpdateTemplate(env.ctx, uuid.New(), uuid.New(), &MissionTemplate{
		Type:  MissionTypePost,
		Title: "Missing",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_ReplaceLevelsRefreshesSettings(t *testing.T) {
	env := newTestEnv(t)
	env.seedGamification(t)
	admin := newAdminService(env, nil)

	err := admin.ReplaceLevels(env.ctx, uuid.New(), []*LevelThreshold{
		{Level: 1, XPRequired: 0},
		{Level: 2, XPRequired: 100},
	})
	require.NoError(t, err)

	settings, err := env.settings.Load(env.ctx)
	require.NoError(t, err)
	require.Len(t, settings.Levels, 2)
	assert.Equal(t, 100, settings.Levels[1].XPRequired)
}

func TestValidateLevels(t *testing.T) {
	assert.NoError(t, ValidateLevels([]*LevelThreshold{
		{Level: 2, XPRequired: 50},
		{Level: 1, XPRequired: 0},
	}))
	assert.ErrorIs(t, ValidateLevels(nil), ErrValidation)
	assert.ErrorIs(t, ValidateLevels([]*LevelThreshold{{Level: 1, XPRequired: 10}}), ErrValidation)
	assert.ErrorIs(t, ValidateLevels([]*LevelThreshold{
		{Level: 1, XPRequired: 0},
		{Level: 2, XPRequired: 0},
	}), ErrValidation)
}

func TestAdminService_ReplaceBadgesAndXpActions(t *testing.T) {
	env := newTestEnv(t)
	admin := newAdminService(env, nil)
	actor := uuid.New()

	err := admin.ReplaceBadges(env.ctx, actor, []*Badge{
		{Name: "Regular", Slug: "Regular", CriteriaType: BadgeCriteriaStreakDays, CriteriaValue: 7, IsActive: true},
	})
	require.NoError(t, err)

	err = admin.ReplaceBadges(env.ctx, actor, []*Badge{
		{Name: "Broken", Slug: "broken", CriteriaType: "likes", CriteriaValue: 1},
	})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, admin.UpsertXpActions(env.ctx, actor, []*XpAction{
		{ActionType: XPActionMissionCompleted, XPAmount: 15, IsActive: true},
	}))

	settings, err := env.settings.Load(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, settings.XPFor(XPActionMissionCompleted))
	require.Len(t, settings.Badges, 1)
	assert.Equal(t, "regular", settings.Badges[0].Slug)

	entries, err := admin.ListAuditEntries(env.ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestAdminService_TriggerJob(t *testing.T) {
	env := newTestEnv(t)
	scheduler := &stubScheduler{}
	admin := newAdminService(env, scheduler)

	require.NoError(t, admin.TriggerJob(env.ctx, uuid.New(), "StreakReset"))
	assert.Equal(t, []string{"StreakReset"}, scheduler.triggered)

	assert.ErrorIs(t, admin.TriggerJob(env.ctx, uuid.New(), "Unknown"), ErrNotFound)
	assert.ErrorIs(t, admin.TriggerJob(env.ctx, uuid.New(), "MissionAssignment"), ErrValidation)
}
