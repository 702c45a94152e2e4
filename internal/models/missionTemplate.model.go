package models

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type MissionType string

const (
	MissionTypePost       MissionType = "post"
	MissionTypeStory      MissionType = "story"
	MissionTypeReel       MissionType = "reel"
	MissionTypeTuto       MissionType = "tuto"
	MissionTypeEngagement MissionType = "engagement"
	MissionTypeCarousel   MissionType = "carousel"
)

func (t MissionType) Valid() bool {
	switch t {
	case MissionTypePost, MissionTypeStory, MissionTypeReel,
		MissionTypeTuto, MissionTypeEngagement, MissionTypeCarousel:
		return true
	}
	return false
}

type MissionTemplate struct {
	BaseUUIDModel
	StrategyID       *uuid.UUID        `gorm:"type:uuid;index"                json:"strategyId"`
	Type             MissionType       `gorm:"type:varchar(20);not null"      json:"type"`
	Title            string            `gorm:"type:text;not null"             json:"title"`
	Description      string            `gorm:"type:text"                      json:"description"`
	DefaultIdea      string            `gorm:"column:content_idea;type:text"  json:"contentIdea"`
	CategoryID       *uuid.UUID        `gorm:"type:uuid;index"                json:"categoryId"`
	Category         *ThematicCategory `gorm:"foreignKey:CategoryID"          json:"category,omitempty"`
	TutorialID       *uuid.UUID        `gorm:"type:uuid"                      json:"tutorialId"`
	Tutorial         *Tutorial         `gorm:"foreignKey:TutorialID"          json:"tutorial,omitempty"`
	NotificationTime *string           `gorm:"type:varchar(5)"                json:"notificationTime"`
	IsActive         bool              `gorm:"type:bool;not null"             json:"isActive"`
	SortOrder        int               `gorm:"not null;default:0"             json:"sortOrder"`
}

// CategoryKey is the category identity used for rotation. Templates without category share "".
func (t *MissionTemplate) CategoryKey() string {
	if t.CategoryID == nil {
		return ""
	}
	return t.CategoryID.String()
}

// CategorySlug is the value matched against idea category scopes.
func (t *MissionTemplate) CategorySlug() string {
	if t.Category == nil {
		return ""
	}
	return t.Category.Slug
}

// ReminderHour returns the hour of the "HH:MM" override, or fallback when unset or malformed.
func (t *MissionTemplate) ReminderHour(fallback int) int {
	if t.NotificationTime == nil {
		return fallback
	}

	hourPart, _, found := strings.Cut(*t.NotificationTime, ":")
	if !found {
		return fallback
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return fallback
	}

	return hour
}
