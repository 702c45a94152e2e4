package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXpAction_Award(t *testing.T) {
	var missing *XpAction
	assert.Equal(t, 0, missing.Award())
	assert.Equal(t, 0, (&XpAction{XPAmount: 10}).Award())
	assert.Equal(t, 0, (&XpAction{XPAmount: -5, IsActive: true}).Award())
	assert.Equal(t, 10, (&XpAction{XPAmount: 10, IsActive: true}).Award())
}

func TestCriteriaFor(t *testing.T) {
	assert.ElementsMatch(t,
		[]BadgeCriteria{BadgeCriteriaMissionsCompleted, BadgeCriteriaStreakDays},
		CriteriaFor(XPActionMissionCompleted),
	)
	assert.ElementsMatch(t,
		[]BadgeCriteria{BadgeCriteriaTutorialsViewed, BadgeCriteriaStreakDays},
		CriteriaFor(XPActionTutorialViewed),
	)
	assert.Empty(t, CriteriaFor("unknown"))
}

func TestMissionTemplate_ReminderHour(t *testing.T) {
	at := func(value string) *string { return &value }

	assert.Equal(t, 10, (&MissionTemplate{}).ReminderHour(10))
	assert.Equal(t, 18, (&MissionTemplate{NotificationTime: at("18:30")}).ReminderHour(10))
	assert.Equal(t, 10, (&MissionTemplate{NotificationTime: at("late")}).ReminderHour(10))
	assert.Equal(t, 10, (&MissionTemplate{NotificationTime: at("25:00")}).ReminderHour(10))
}
