package constants

import "time"

const (
	UserCachePrefix = "user" // user rows by id, stored as "user:<id>"
	UserCacheExpiry = 24 * time.Hour

	SettingsCachePrefix = "gamification" // levels, xp actions and badges snapshot
	SettingsCacheKey    = "settings"
	SettingsCacheExpiry = 5 * time.Minute
)
