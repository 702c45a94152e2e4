package models

import (
	"restocoach/internal/utils"
	"time"

	"github.com/google/uuid"
)

type MissionStatus string

const (
	MissionStatusPending   MissionStatus = "pending"
	MissionStatusCompleted MissionStatus = "completed"
	MissionStatusSkipped   MissionStatus = "skipped"
)

// MaxCaptionLength bounds the published caption, matching Instagram's limit.
const MaxCaptionLength = 2200

type Mission struct {
	BaseUUIDModel
	UserID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_missions_user_slot_day,priority:1"   json:"userId"`
	SlotNumber    int              `gorm:"not null;uniqueIndex:idx_missions_user_slot_day,priority:2"             json:"slotNumber"`
	Day           utils.Day        `gorm:"type:varchar(10);not null;uniqueIndex:idx_missions_user_slot_day,priority:3;index" json:"day"`
	TemplateID    uuid.UUID        `gorm:"type:uuid;not null;index"                                              json:"templateId"`
	Template      *MissionTemplate `gorm:"foreignKey:TemplateID"                                                 json:"template,omitempty"`
	ContentIdeaID *uuid.UUID       `gorm:"type:uuid;index"                                                       json:"contentIdeaId"`
	IdeaText      string           `gorm:"type:text"                                                             json:"ideaText"`
	Status        MissionStatus    `gorm:"type:varchar(20);not null;default:pending;index"                       json:"status"`
	IsRecommended bool             `gorm:"type:bool;not null;default:false"                                      json:"isRecommended"`
	ReloadCount   int              `gorm:"not null;default:0"                                                    json:"reloadCount"`
	Caption       *string          `gorm:"type:text"                                                             json:"caption,omitempty"`
	AssignedAt    time.Time        `gorm:"not null"                                                              json:"assignedAt"`
	CompletedAt   *time.Time       `                                                                             json:"completedAt,omitempty"`
	SkippedAt     *time.Time       `                                                                             json:"skippedAt,omitempty"`
}

func (m *Mission) IsPending() bool {
	return m.Status == MissionStatusPending
}
