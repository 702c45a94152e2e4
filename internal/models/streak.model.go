package models

import (
	"restocoach/internal/utils"

	"github.com/google/uuid"
)

type StreakStatus string

const (
	// StreakStatusNone means the user never recorded an activity.
	StreakStatusNone StreakStatus = "none"
	// StreakStatusSecured means today already counts.
	StreakStatusSecured StreakStatus = "secured"
	// StreakStatusAtRisk means the streak survives only if the user acts today.
	StreakStatusAtRisk StreakStatus = "at_risk"
	StreakStatusBroken StreakStatus = "broken"
)

type Streak struct {
	BaseUUIDModel
	UserID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	CurrentStreak    int        `gorm:"not null;default:0"             json:"currentStreak"`
	LongestStreak    int        `gorm:"not null;default:0"             json:"longestStreak"`
	LastActivityDate *utils.Day `gorm:"type:varchar(10);index"         json:"lastActivityDate"`
}

// RecordActivity applies a completion on today and reports whether the row changed.
// Yesterday extends the streak, today is a no-op, anything older restarts at 1.
func (s *Streak) RecordActivity(today utils.Day) bool {
	switch {
	case s.LastActivityDate != nil && *s.LastActivityDate == today:
		return false
	case s.LastActivityDate != nil && *s.LastActivityDate == today.AddDays(-1):
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}

	day := today
	s.LastActivityDate = &day
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}

	return true
}

// IsLapsed reports whether the last activity is older than yesterday while a streak is still counted.
func (s *Streak) IsLapsed(today utils.Day) bool {
	if s.CurrentStreak == 0 {
		return false
	}
	if s.LastActivityDate == nil {
		return true
	}
	return s.LastActivityDate.Before(today.AddDays(-1))
}

// ResetIfLapsed zeroes the current streak when lapsed. LongestStreak is untouched.
func (s *Streak) ResetIfLapsed(today utils.Day) bool {
	if !s.IsLapsed(today) {
		return false
	}
	s.CurrentStreak = 0
	return true
}

func (s *Streak) Status(today utils.Day) StreakStatus {
	switch {
	case s == nil || s.LastActivityDate == nil:
		return StreakStatusNone
	case s.CurrentStreak == 0:
		return StreakStatusBroken
	case *s.LastActivityDate == today:
		return StreakStatusSecured
	case *s.LastActivityDate == today.AddDays(-1):
		return StreakStatusAtRisk
	default:
		return StreakStatusBroken
	}
}
