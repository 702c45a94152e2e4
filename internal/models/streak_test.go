package models

import (
	"restocoach/internal/utils"
	"testing"

	"github.com/stretchr/testify/assert"
)

func dayPtr(day utils.Day) *utils.Day {
	return &day
}

func TestStreak_RecordActivity(t *testing.T) {
	today := utils.Day("2025-05-10")

	tests := []struct {
		name            string
		streak          Streak
		expectedChanged bool
		expectedCurrent int
		expectedLongest int
	}{
		{
			name:            "first activity starts at one",
			streak:          Streak{},
			expectedChanged: true,
			expectedCurrent: 1,
			expectedLongest: 1,
		},
		{
			name:            "activity yesterday extends the streak",
			streak:          Streak{CurrentStreak: 4, LongestStreak: 4, LastActivityDate: dayPtr("2025-05-09")},
			expectedChanged: true,
			expectedCurrent: 5,
			expectedLongest: 5,
		},
		{
			name:            "activity today changes nothing",
			streak:          Streak{CurrentStreak: 4, LongestStreak: 6, LastActivityDate: dayPtr("2025-05-10")},
			expectedChanged: false,
			expectedCurrent: 4,
			expectedLongest: 6,
		},
		{
			name:            "gap restarts the streak and keeps the longest",
			streak:          Streak{CurrentStreak: 9, LongestStreak: 9, LastActivityDate: dayPtr("2025-05-07")},
			expectedChanged: true,
			expectedCurrent: 1,
			expectedLongest: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			streak := tt.streak
			changed := streak.RecordActivity(today)

			assert.Equal(t, tt.expectedChanged, changed)
			assert.Equal(t, tt.expectedCurrent, streak.CurrentStreak)
			assert.Equal(t, tt.expectedLongest, streak.LongestStreak)
			assert.Equal(t, today, *streak.LastActivityDate)
			assert.LessOrEqual(t, streak.CurrentStreak, streak.LongestStreak)
		})
	}
}

func TestStreak_ResetIfLapsed(t *testing.T) {
	today := utils.Day("2025-05-10")

	lapsed := Streak{CurrentStreak: 5, LongestStreak: 7, LastActivityDate: dayPtr("2025-05-08")}
	assert.True(t, lapsed.ResetIfLapsed(today))
	assert.Equal(t, 0, lapsed.CurrentStreak)
	assert.Equal(t, 7, lapsed.LongestStreak)

	alive := Streak{CurrentStreak: 5, LongestStreak: 5, LastActivityDate: dayPtr("2025-05-09")}
	assert.False(t, alive.ResetIfLapsed(today))
	assert.Equal(t, 5, alive.CurrentStreak)

	alreadyZero := Streak{CurrentStreak: 0, LongestStreak: 3, LastActivityDate: dayPtr("2025-04-01")}
	assert.False(t, alreadyZero.ResetIfLapsed(today))
}

func TestStreak_Status(t *testing.T) {
	today := utils.Day("2025-05-10")

	var missing *Streak
	assert.Equal(t, StreakStatusNone, missing.Status(today))
	assert.Equal(t, StreakStatusNone, (&Streak{}).Status(today))
	assert.Equal(t, StreakStatusSecured,
		(&Streak{CurrentStreak: 2, LastActivityDate: dayPtr(today)}).Status(today))
	assert.Equal(t, StreakStatusAtRisk,
		(&Streak{CurrentStreak: 2, LastActivityDate: dayPtr("2025-05-09")}).Status(today))
	assert.Equal(t, StreakStatusBroken,
		(&Streak{CurrentStreak: 2, LastActivityDate: dayPtr("2025-05-08")}).Status(today))
	assert.Equal(t, StreakStatusBroken,
		(&Streak{CurrentStreak: 0, LastActivityDate: dayPtr("2025-05-09")}).Status(today))
}
