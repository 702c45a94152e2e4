package models

type LevelThreshold struct {
	BaseUUIDModel
	Level      int    `gorm:"not null;uniqueIndex"                     json:"level"      yaml:"level"`
	XPRequired int    `gorm:"column:xp_required;not null;uniqueIndex" json:"xpRequired" yaml:"xpRequired"`
	Title      string `gorm:"type:text"                                json:"title"      yaml:"title"`
}

// LevelForXP returns the highest level whose requirement is met. Level 1 when nothing matches.
func LevelForXP(thresholds []*LevelThreshold, xp int) int {
	current := CurrentThreshold(thresholds, xp)
	if current == nil {
		return 1
	}
	return current.Level
}

// CurrentThreshold is the highest threshold reached by xp, nil when none is reached.
func CurrentThreshold(thresholds []*LevelThreshold, xp int) *LevelThreshold {
	var current *LevelThreshold
	for _, threshold := range thresholds {
		if threshold.XPRequired > xp {
			continue
		}
		if current == nil || threshold.XPRequired > current.XPRequired {
			current = threshold
		}
	}
	return current
}

// NextThreshold is the lowest threshold above xp, nil at the top level.
func NextThreshold(thresholds []*LevelThreshold, xp int) *LevelThreshold {
	var next *LevelThreshold
	for _, threshold := range thresholds {
		if threshold.XPRequired <= xp {
			continue
		}
		if next == nil || threshold.XPRequired < next.XPRequired {
			next = threshold
		}
	}
	return next
}
