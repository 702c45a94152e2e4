package services

import (
	"testing"
	"time"

	. "restocoach/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCompletion_FirstCompletionCreatesStreak(t *testing.T) {
	env := newTestEnv(t)
	env.seedGamification(t)
	user := env.createUser(t)

	result, err := env.gamification.RecordCompletion(env.ctx, user.ID, XPActionMissionCompleted)
	require.NoError(t, err)
	require.NotNil(t, result.Streak)
	assert.Equal(t, 1, result.Streak.CurrentStreak)
	assert.Equal(t, StreakStatusSecured, result.Streak.Status)

	streak, err := env.repos.Streak.GetByUserID(env.ctx, env.db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, streak)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
	assert.Equal(t, env.calendar.Today(), *streak.LastActivityDate)
}

func TestRecordCompletion_StreakTransitions(t *testing.T) {
	tests := []struct {
		name        string
		daysAgo     int
		current     int
		wantCurrent int
		wantLongest int
	}{
		{name: "same day is a no-op", daysAgo: 0, current: 4, wantCurrent: 4, wantLongest: 4},
		{name: "yesterday extends", daysAgo: 1, current: 4, wantCurrent: 5, wantLongest: 5},
		{name: "older restarts at one", daysAgo: 3, current: 4, wantCurrent: 1, wantLongest: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			user := env.createUser(t)
			env.setStreak(t, user.ID, tt.current, env.calendar.Today().AddDays(-tt.daysAgo))

			_, err := env.gamification.RecordCompletion(env.ctx, user.ID, XPActionMissionCompleted)
			require.NoError(t, err)

			streak, err := env.repos.Streak.GetByUserID(env.ctx, env.db, user.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, streak.CurrentStreak)
			assert.Equal(t, tt.wantLongest, streak.LongestStreak)
			assert.Equal(t, env.calendar.Today(), *streak.LastActivityDate)
		})
	}
}

func TestRecordCompletion_LevelThresholds(t *testing.T) {
	tests := []struct {
		name      string
		startXP   int
		wantLevel int
		leveledUp bool
	}{
		{name: "49 stays at level 1", startXP: 39, wantLevel: 1},
		{name: "50 reaches level 2", startXP: 40, wantLevel: 2, leveledUp: true},
		{name: "149 stays at level 2", startXP: 139, wantLevel: 2, leveledUp: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seedGamification(t)
			user := env.createUser(t)
			env.setXP(t, user.ID, tt.startXP)

			result, err := env.gamification.RecordCompletion(env.ctx, user.ID, XPActionMissionCompleted)
			require.NoError(t, err)
			assert.Equal(t, tt.startXP+10, result.XPTotal)
			assert.Equal(t, tt.wantLevel, result.Level)
			assert.Equal(t, tt.leveledUp, result.LeveledUp)

			stored := env.reloadUser(t, user.ID)
			assert.Equal(t, tt.wantLevel, stored.CurrentLevel)
			if tt.leveledUp {
				assert.Equal(t, 1, env.notifier.count(NotificationKindLevelUp))
			}
		})
	}
}

func TestRecordCompletion_EmptyLevelTableKeepsLevel(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	require.NoError(t, env.db.Model(&User{}).Where("id = ?", user.ID).Update("current_level", 3).Error)

	result, err := env.gamification.RecordCompletion(env.ctx, user.ID, XPActionMissionCompleted)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Level)
	assert.Equal(t, 3, env.reloadUser(t, user.ID).CurrentLevel)
}

func TestRecordCompletion_BadgeUnlockIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.seedGamification(t)
	require.NoError(t, env.repos.Badge.UpsertBySlug(env.ctx, env.db, []*Badge{{
		Name:          "First post",
		Slug:          "first-post",
		CriteriaType:  BadgeCriteriaMissionsCompleted,
		CriteriaValue: 1,
		IsActive:      true,
	}}))
	env.seedCatalog(t)
	user := env.createUser(t)

	missions, err := env.missions.GetTodayMissions(env.ctx, user.ID)
	require.NoError(t, err)

	first, err := env.missions.CompleteMission(env.ctx, missions[0].ID, user.ID, "")
	require.NoError(t, err)
	require.NotNil(t, first.Gamification)
	require.Len(t, first.Gamification.UnlockedBadges, 1)
	assert.Equal(t, "first-post", first.Gamification.UnlockedBadges[0].Slug)

	second, err := env.missions.CompleteMission(env.ctx, missions[1].ID, user.ID, "")
	require.NoError(t, err)
	require.NotNil(t, second.Gamification)
	assert.Empty(t, second.Gamification.UnlockedBadges)

	var count int64
	require.NoError(t, env.db.Model(&BadgeUnlock{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, env.notifier.count(NotificationKindBadgeUnlocked))

	badges, err := env.gamification.GetUserBadges(env.ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "First post", badges[0].Badge.Name)
}

func TestCheckStreakReset(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	env.setStreak(t, user.ID, 6, env.calendar.Today().AddDays(-2))

	reset, err := env.gamification.CheckStreakReset(env.ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reset)

	streak, err := env.repos.Streak.GetByUserID(env.ctx, env.db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 6, streak.LongestStreak)

	again, err := env.gamification.CheckStreakReset(env.ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestCheckStreakReset_YesterdayIsKept(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	env.setStreak(t, user.ID, 6, env.calendar.Yesterday())

	reset, err := env.gamification.CheckStreakReset(env.ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reset)

	info, err := env.gamification.GetStreakInfo(env.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, info.CurrentStreak)
	assert.Equal(t, StreakStatusAtRisk, info.Status)
	assert.True(t, info.IsAtRisk)
}

func TestResetLapsedStreaks(t *testing.T) {
	env := newTestEnv(t)
	lapsed := env.createUser(t)
	active := env.createUser(t)
	env.setStreak(t, lapsed.ID, 3, env.calendar.Today().AddDays(-5))
	env.setStreak(t, active.ID, 2, env.calendar.Today())

	result, err := env.gamification.ResetLapsedStreaks(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, env.notifier.count(NotificationKindStreakLost))

	streak, err := env.repos.Streak.GetByUserID(env.ctx, env.db, active.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)
}

func TestGetStreakInfo_LapsedStreakReadsAsZero(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	env.setStreak(t, user.ID, 8, env.calendar.Today().AddDays(-3))

	info, err := env.gamification.GetStreakInfo(env.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, info.CurrentStreak)
	assert.Equal(t, 8, info.LongestStreak)
	assert.Equal(t, StreakStatusBroken, info.Status)

	none, err := env.gamification.GetStreakInfo(env.ctx, env.createUser(t).ID)
	require.NoError(t, err)
	assert.Equal(t, StreakStatusNone, none.Status)
}

func TestGetStreakEncouragement(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	env.setStreak(t, user.ID, 6, env.calendar.Yesterday())

	_, err := env.gamification.RecordCompletion(env.ctx, user.ID, XPActionMissionCompleted)
	require.NoError(t, err)

	info, err := env.gamification.GetStreakInfo(env.ctx, user.ID)
	require.NoError(t, err)

	encouragement := env.gamification.GetStreakEncouragement(info)
	assert.Equal(t, StreakStatusSecured, encouragement.Status)
	assert.Equal(t, 7, encouragement.Milestone)
	assert.Equal(t, 14, encouragement.NextMilestone)
}

func TestLevelProgress(t *testing.T) {
	levels := []*LevelThreshold{
		{Level: 1, XPRequired: 0, Title: "Apprentice"},
		{Level: 2, XPRequired: 50, Title: "Line cook"},
		{Level: 3, XPRequired: 150, Title: "Chef"},
	}

	progress := levelProgress(levels, 100)
	assert.Equal(t, 2, progress.Level)
	assert.Equal(t, "Line cook", progress.Title)
	require.NotNil(t, progress.NextLevel)
	assert.Equal(t, 3, *progress.NextLevel)
	assert.True(t, decimal.NewFromInt(50).Equal(progress.ProgressPercent))

	third := levelProgress(levels, 83)
	assert.Equal(t, "33", third.ProgressPercent.String())

	top := levelProgress(levels, 400)
	assert.Equal(t, 3, top.Level)
	assert.Nil(t, top.NextLevel)
	assert.True(t, decimal.NewFromInt(100).Equal(top.ProgressPercent))
}

func TestRecordTutorialView(t *testing.T) {
	env := newTestEnv(t)
	env.seedGamification(t)
	user := env.createUser(t)
	tutorial := &Tutorial{Title: "Shooting food in daylight", Slug: "daylight", URL: "https://example.com/daylight", IsActive: true}
	require.NoError(t, env.db.Create(tutorial).Error)

	first, err := env.gamification.RecordTutorialView(env.ctx, user.ID, tutorial.ID)
	require.NoError(t, err)
	assert.True(t, first.FirstView)
	require.NotNil(t, first.Gamification)
	assert.Equal(t, 5, first.Gamification.XPAwarded)

	env.clock.Advance(time.Hour)

	second, err := env.gamification.RecordTutorialView(env.ctx, user.ID, tutorial.ID)
	require.NoError(t, err)
	assert.False(t, second.FirstView)
	assert.Nil(t, second.Gamification)
	assert.Equal(t, 5, env.reloadUser(t, user.ID).XPTotal)
}
