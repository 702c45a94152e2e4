package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditEntry struct {
	BaseUUIDModel
	ActorID    uuid.UUID         `gorm:"type:uuid;not null;index"  json:"actorId"`
	Action     string            `gorm:"type:varchar(50);not null" json:"action"`
	Resource   string            `gorm:"type:varchar(50);not null" json:"resource"`
	ResourceID string            `gorm:"type:text"                 json:"resourceId"`
	Details    datatypes.JSONMap `                                 json:"details"`
}
