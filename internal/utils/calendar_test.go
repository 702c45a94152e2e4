package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return loc
}

func TestCalendar_TodayUsesRegionalTimezone(t *testing.T) {
	// 23:30 UTC on March 9th is already March 10th in Paris.
	clock := NewFixedClock(time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC))
	calendar := NewCalendar(clock, paris(t))

	assert.Equal(t, Day("2025-03-10"), calendar.Today())
	assert.Equal(t, Day("2025-03-09"), calendar.Yesterday())
}

func TestCalendar_AdvanceAcrossMidnight(t *testing.T) {
	loc := paris(t)
	clock := NewFixedClock(time.Date(2025, 6, 1, 23, 59, 0, 0, loc))
	calendar := NewCalendar(clock, loc)

	assert.Equal(t, Day("2025-06-01"), calendar.Today())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, Day("2025-06-02"), calendar.Today())
}

func TestDay_Arithmetic(t *testing.T) {
	day := Day("2024-02-28")

	assert.Equal(t, Day("2024-02-29"), day.AddDays(1))
	assert.Equal(t, Day("2024-03-01"), day.AddDays(2))
	assert.Equal(t, Day("2024-02-27"), day.AddDays(-1))
	assert.True(t, day.Before("2024-03-01"))
	assert.True(t, day.After("2023-12-31"))
	assert.Equal(t, 2, day.DaysUntil("2024-03-01"))
}

func TestDay_DSTChangeKeepsWholeDays(t *testing.T) {
	// Paris switches to summer time on 2025-03-30.
	day := Day("2025-03-29")
	assert.Equal(t, Day("2025-03-31"), day.AddDays(2))
	assert.Equal(t, 2, day.DaysUntil("2025-03-31"))
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2025-01-05")
	require.NoError(t, err)
	assert.Equal(t, Day("2025-01-05"), day)

	_, err = ParseDay("05/01/2025")
	assert.Error(t, err)
}
