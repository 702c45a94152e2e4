package models

import (
	"time"

	"github.com/google/uuid"
)

type Tutorial struct {
	BaseUUIDModel
	Title    string `gorm:"type:text;not null"            json:"title"    yaml:"title"`
	Slug     string `gorm:"type:varchar(100);uniqueIndex" json:"slug"     yaml:"slug"`
	URL      string `gorm:"column:url;type:text"          json:"url"      yaml:"url"`
	IsActive bool   `gorm:"type:bool;not null"            json:"isActive" yaml:"isActive"`
}

type TutorialView struct {
	BaseUUIDModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tutorial_views_user_tutorial,priority:1" json:"userId"`
	TutorialID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tutorial_views_user_tutorial,priority:2" json:"tutorialId"`
	ViewedAt   time.Time `gorm:"not null"                                                                   json:"viewedAt"`
}
