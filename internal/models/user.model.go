package models

import (
	"time"
)

type User struct {
	BaseUUIDModel
	DisplayName  string     `gorm:"type:text"                              json:"displayName"`
	Email        *string    `gorm:"type:text;uniqueIndex"                  json:"email"`
	IsAdmin      bool       `gorm:"type:bool;default:false"                json:"isAdmin"`
	IsActive     bool       `gorm:"type:bool;not null"                     json:"isActive"`
	XPTotal      int        `gorm:"column:xp_total;not null;default:0"     json:"xpTotal"`
	CurrentLevel int        `gorm:"column:current_level;not null;default:1" json:"currentLevel"`
	LastActiveAt *time.Time `gorm:"type:timestamp"                         json:"lastActiveAt,omitempty"`

	Restaurant *Restaurant `gorm:"foreignKey:UserID" json:"restaurant,omitempty"`
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID           string      `json:"id"`
	DisplayName  string      `json:"displayName"`
	Email        *string     `json:"email,omitempty"`
	IsActive     bool        `json:"isActive"`
	IsAdmin      bool        `json:"isAdmin"`
	XPTotal      int         `json:"xpTotal"`
	CurrentLevel int         `json:"currentLevel"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:           u.ID.String(),
		DisplayName:  u.DisplayName,
		Email:        u.Email,
		IsActive:     u.IsActive,
		IsAdmin:      u.IsAdmin,
		XPTotal:      u.XPTotal,
		CurrentLevel: u.CurrentLevel,
		Restaurant:   u.Restaurant,
	}
}
