package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PublicationRhythm string

const (
	PublicationRhythmLight     PublicationRhythm = "light"
	PublicationRhythmRegular   PublicationRhythm = "regular"
	PublicationRhythmIntensive PublicationRhythm = "intensive"
)

// SlotsPerDay maps the rhythm to a daily mission count. Unknown rhythms use fallback.
func (r PublicationRhythm) SlotsPerDay(fallback int) int {
	switch r {
	case PublicationRhythmLight:
		return 1
	case PublicationRhythmRegular:
		return 2
	case PublicationRhythmIntensive:
		return 3
	default:
		return fallback
	}
}

func (r PublicationRhythm) Valid() bool {
	switch r {
	case PublicationRhythmLight, PublicationRhythmRegular, PublicationRhythmIntensive:
		return true
	}
	return false
}

type Restaurant struct {
	BaseUUIDModel
	UserID            uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Name              string                      `gorm:"type:text;not null"            json:"name"`
	RestaurantType    string                      `gorm:"type:varchar(50);index"        json:"restaurantType"`
	StrategyID        *uuid.UUID                  `gorm:"type:uuid;index"               json:"strategyId"`
	Strategy          *Strategy                   `gorm:"foreignKey:StrategyID"         json:"strategy,omitempty"`
	PublicationRhythm PublicationRhythm           `gorm:"type:varchar(20)"              json:"publicationRhythm"`
	Tags              datatypes.JSONSlice[string] `                                     json:"tags"`
}

func (r *Restaurant) BeforeSave(tx *gorm.DB) error {
	r.RestaurantType = NormalizeValue(r.RestaurantType)
	r.Tags = NormalizeValues(r.Tags)
	return nil
}

// NormalizeValue lowercases and trims a set member.
func NormalizeValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeValues normalizes every member, drops empties and duplicates, and keeps first-seen order.
func NormalizeValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		value = NormalizeValue(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		normalized = append(normalized, value)
	}
	return normalized
}
