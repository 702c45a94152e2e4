package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type ContentIdea struct {
	BaseUUIDModel
	Text            string `gorm:"type:text;not null"                              json:"text"`
	IsActive        bool   `gorm:"type:bool;not null"                              json:"isActive"`
	SortOrder       int    `gorm:"not null;default:0"                              json:"sortOrder"`
	RestaurantTypes Scope  `gorm:"embedded;embeddedPrefix:restaurant_types_"       json:"restaurantTypes"`
	ContentTypes    Scope  `gorm:"embedded;embeddedPrefix:content_types_"          json:"contentTypes"`
	Categories      Scope  `gorm:"embedded;embeddedPrefix:categories_"             json:"categories"`
}

func (c *ContentIdea) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return errors.New("content idea text is required")
	}

	return errors.Join(
		c.RestaurantTypes.Validate(),
		c.ContentTypes.Validate(),
		c.Categories.Validate(),
	)
}

func (c *ContentIdea) Matches(restaurantType string, missionType MissionType, categorySlug string) bool {
	return c.RestaurantTypes.Matches(restaurantType) &&
		c.ContentTypes.Matches(string(missionType)) &&
		c.Categories.Matches(categorySlug)
}

func (c *ContentIdea) BeforeSave(tx *gorm.DB) error {
	c.RestaurantTypes.normalize()
	c.ContentTypes.normalize()
	c.Categories.normalize()
	return c.Validate()
}
