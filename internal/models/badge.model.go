package models

import (
	"time"

	"github.com/google/uuid"
)

type BadgeCriteria string

const (
	BadgeCriteriaMissionsCompleted BadgeCriteria = "missions_completed"
	BadgeCriteriaStreakDays        BadgeCriteria = "streak_days"
	BadgeCriteriaTutorialsViewed   BadgeCriteria = "tutorials_viewed"
)

func (c BadgeCriteria) Valid() bool {
	switch c {
	case BadgeCriteriaMissionsCompleted, BadgeCriteriaStreakDays, BadgeCriteriaTutorialsViewed:
		return true
	}
	return false
}

type Badge struct {
	BaseUUIDModel
	Name          string        `gorm:"type:text;not null"            json:"name"          yaml:"name"`
	Slug          string        `gorm:"type:varchar(100);uniqueIndex" json:"slug"          yaml:"slug"`
	Description   string        `gorm:"type:text"                     json:"description"   yaml:"description"`
	Icon          string        `gorm:"type:varchar(100)"             json:"icon"          yaml:"icon"`
	CriteriaType  BadgeCriteria `gorm:"type:varchar(30);not null"     json:"criteriaType"  yaml:"criteriaType"`
	CriteriaValue int           `gorm:"not null"                      json:"criteriaValue" yaml:"criteriaValue"`
	IsActive      bool          `gorm:"type:bool;not null"            json:"isActive"      yaml:"isActive"`
}

// CriteriaFor lists the badge criteria a gamified action can move.
func CriteriaFor(action string) []BadgeCriteria {
	switch action {
	case XPActionMissionCompleted:
		return []BadgeCriteria{BadgeCriteriaMissionsCompleted, BadgeCriteriaStreakDays}
	case XPActionTutorialViewed:
		return []BadgeCriteria{BadgeCriteriaTutorialsViewed, BadgeCriteriaStreakDays}
	default:
		return nil
	}
}

type BadgeUnlock struct {
	BaseUUIDModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_badge_unlocks_user_badge,priority:1" json:"userId"`
	BadgeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_badge_unlocks_user_badge,priority:2" json:"badgeId"`
	Badge      *Badge    `gorm:"foreignKey:BadgeID"                                                     json:"badge,omitempty"`
	UnlockedAt time.Time `gorm:"not null"                                                               json:"unlockedAt"`
}
