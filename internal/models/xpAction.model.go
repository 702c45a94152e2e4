package models

const (
	XPActionMissionCompleted = "mission_completed"
	XPActionTutorialViewed   = "tutorial_viewed"
	XPActionBadgeUnlocked    = "badge_unlocked"
)

type XpAction struct {
	BaseUUIDModel
	ActionType  string `gorm:"type:varchar(50);uniqueIndex"   json:"actionType"  yaml:"actionType"`
	XPAmount    int    `gorm:"column:xp_amount;not null"     json:"xpAmount"    yaml:"xpAmount"`
	IsActive    bool   `gorm:"type:bool;not null"             json:"isActive"    yaml:"isActive"`
	Description string `gorm:"type:text"                      json:"description" yaml:"description"`
}

// Award is the XP granted by the action. Inactive or non-positive actions grant nothing.
func (a *XpAction) Award() int {
	if a == nil || !a.IsActive || a.XPAmount <= 0 {
		return 0
	}
	return a.XPAmount
}
