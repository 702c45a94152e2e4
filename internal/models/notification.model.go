package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationKind string

const (
	NotificationKindMissionReminder NotificationKind = "mission_reminder"
	NotificationKindLevelUp         NotificationKind = "level_up"
	NotificationKindBadgeUnlocked   NotificationKind = "badge_unlocked"
	NotificationKindStreakLost      NotificationKind = "streak_lost"
)

type Notification struct {
	BaseUUIDModel
	UserID uuid.UUID         `gorm:"type:uuid;not null;index" json:"userId"`
	Kind   NotificationKind  `gorm:"type:varchar(30);not null" json:"kind"`
	Title  string            `gorm:"type:text;not null"        json:"title"`
	Body   string            `gorm:"type:text"                 json:"body"`
	Data   datatypes.JSONMap `                                 json:"data"`
	ReadAt *time.Time        `gorm:"index"                     json:"readAt,omitempty"`
}
