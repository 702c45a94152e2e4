package types

import (
	. "restocoach/internal/models"
	"restocoach/internal/utils"
	"time"

	"github.com/shopspring/decimal"
)

type StreakInfo struct {
	CurrentStreak    int          `json:"currentStreak"`
	LongestStreak    int          `json:"longestStreak"`
	LastActivityDate *utils.Day   `json:"lastActivityDate"`
	Status           StreakStatus `json:"status"`
	IsAtRisk         bool         `json:"isAtRisk"`
}

type Encouragement struct {
	Status        StreakStatus `json:"status"`
	Message       string       `json:"message"`
	Milestone     int          `json:"milestone,omitempty"`
	NextMilestone int          `json:"nextMilestone,omitempty"`
}

type LevelProgress struct {
	Level           int             `json:"level"`
	Title           string          `json:"title"`
	XPTotal         int             `json:"xpTotal"`
	CurrentLevelXP  int             `json:"currentLevelXp"`
	NextLevel       *int            `json:"nextLevel,omitempty"`
	NextLevelXP     *int            `json:"nextLevelXp,omitempty"`
	ProgressPercent decimal.Decimal `json:"progressPercent"`
}

type GamificationResult struct {
	Action         string      `json:"action"`
	XPAwarded      int         `json:"xpAwarded"`
	XPTotal        int         `json:"xpTotal"`
	Level          int         `json:"level"`
	LeveledUp      bool        `json:"leveledUp"`
	Streak         *StreakInfo `json:"streak,omitempty"`
	UnlockedBadges []*Badge    `json:"unlockedBadges"`
	// FailedSteps lists the best-effort steps that did not complete.
	FailedSteps []string `json:"failedSteps,omitempty"`
}

type UserBadge struct {
	Badge      *Badge    `json:"badge"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

type TutorialViewResult struct {
	FirstView    bool                `json:"firstView"`
	Gamification *GamificationResult `json:"gamification,omitempty"`
}
