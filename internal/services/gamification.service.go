package services

import (
	"context"
	"errors"
	"fmt"
	"restocoach/internal/database"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"
	"restocoach/internal/types"
	"restocoach/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var streakMilestones = []int{3, 7, 14, 30}

type GamificationService struct {
	repos    repositories.Repository
	db       *gorm.DB
	calendar *utils.Calendar
	settings *SettingsService
	notifier Notifier
	log      logger.Logger
}

func NewGamificationService(
	repos repositories.Repository,
	db *gorm.DB,
	calendar *utils.Calendar,
	settings *SettingsService,
	notifier Notifier,
) *GamificationService {
	return &GamificationService{
		repos:    repos,
		db:       db,
		calendar: calendar,
		settings: settings,
		notifier: notifier,
		log:      logger.New("gamificationService"),
	}
}

// RecordCompletion applies the side effects of a gamified action. Each step is best effort:
// a failing step is logged and reported in FailedSteps while the others still run.
func (s *GamificationService) RecordCompletion(
	ctx context.Context,
	userID uuid.UUID,
	action string,
) (*types.GamificationResult, error) {
	log := s.log.Function("RecordCompletion")

	result := &types.GamificationResult{
		Action:         action,
		UnlockedBadges: []*Badge{},
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		log.Er("failed to load gamification settings, continuing without", err, "userID", userID)
		settings = &GamificationSettings{}
		result.FailedSteps = append(result.FailedSteps, "settings")
	}

	today := s.calendar.Today()

	streak, err := s.recordStreakActivity(ctx, userID, today)
	if err != nil {
		log.Er("streak update failed", err, "userID", userID)
		result.FailedSteps = append(result.FailedSteps, "streak")
	} else {
		info := streakInfo(streak, today)
		result.Streak = &info
	}

	if err := s.awardXP(ctx, userID, settings.XPFor(action), settings, result); err != nil {
		log.Er("xp award failed", err, "userID", userID, "action", action)
		result.FailedSteps = append(result.FailedSteps, "xp")
	}

	if err := s.evaluateBadges(ctx, userID, action, streak, settings, result); err != nil {
		log.Er("badge evaluation failed", err, "userID", userID, "action", action)
		result.FailedSteps = append(result.FailedSteps, "badges")
	}

	return result, nil
}

func (s *GamificationService) recordStreakActivity(
	ctx context.Context,
	userID uuid.UUID,
	today utils.Day,
) (*Streak, error) {
	streak, err := s.repos.Streak.GetByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	if streak == nil {
		streak = &Streak{UserID: userID}
		streak.RecordActivity(today)

		err = s.repos.Streak.Create(ctx, s.db, streak)
		if err == nil {
			return streak, nil
		}
		if !database.IsDuplicateKeyError(err) {
			return nil, err
		}

		// A concurrent first completion created the row. Apply ours on top of it.
		streak, err = s.repos.Streak.GetByUserID(ctx, s.db, userID)
		if err != nil {
			return nil, err
		}
		if streak == nil {
			return nil, fmt.Errorf("streak for user %s vanished after duplicate create", userID)
		}
	}

	if streak.RecordActivity(today) {
		if err := s.repos.Streak.Save(ctx, s.db, streak); err != nil {
			return nil, err
		}
	}

	return streak, nil
}

// awardXP adds amount to the user's total and recomputes the level, even for a zero amount.
func (s *GamificationService) awardXP(
	ctx context.Context,
	userID uuid.UUID,
	amount int,
	settings *GamificationSettings,
	result *types.GamificationResult,
) error {
	if amount < 0 {
		amount = 0
	}

	user, err := s.repos.User.GetByID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	previousLevel := user.CurrentLevel

	total, err := s.repos.User.AddXP(ctx, s.db, userID, amount)
	if err != nil {
		return err
	}
	result.XPAwarded += amount
	result.XPTotal = total

	// Without a level table there is nothing to recompute against.
	if len(settings.Levels) == 0 {
		result.Level = previousLevel
		return nil
	}

	level := LevelForXP(settings.Levels, total)
	result.Level = level
	if level == previousLevel {
		return nil
	}

	if err := s.repos.User.SetLevel(ctx, s.db, userID, level); err != nil {
		return err
	}

	if level > previousLevel {
		result.LeveledUp = true
		title := ""
		if threshold := CurrentThreshold(settings.Levels, total); threshold != nil {
			title = threshold.Title
		}
		s.notify(ctx, userID, NotificationKindLevelUp,
			fmt.Sprintf("Level %d reached", level),
			title,
			map[string]any{"level": level, "xpTotal": total},
		)
	}

	return nil
}

func (s *GamificationService) evaluateBadges(
	ctx context.Context,
	userID uuid.UUID,
	action string,
	streak *Streak,
	settings *GamificationSettings,
	result *types.GamificationResult,
) error {
	log := s.log.Function("evaluateBadges")

	candidates := settings.BadgesFor(CriteriaFor(action))
	if len(candidates) == 0 {
		return nil
	}

	unlocked, err := s.repos.Badge.GetUnlockedBadgeIDs(ctx, s.db, userID)
	if err != nil {
		return err
	}

	counters := map[BadgeCriteria]int{}
	counter := func(criteria BadgeCriteria) (int, error) {
		if value, ok := counters[criteria]; ok {
			return value, nil
		}

		var value int
		switch criteria {
		case BadgeCriteriaMissionsCompleted:
			count, err := s.repos.Mission.CountCompleted(ctx, s.db, userID)
			if err != nil {
				return 0, err
			}
			value = int(count)
		case BadgeCriteriaTutorialsViewed:
			count, err := s.repos.Tutorial.CountViews(ctx, s.db, userID)
			if err != nil {
				return 0, err
			}
			value = int(count)
		case BadgeCriteriaStreakDays:
			current := streak
			if current == nil {
				current, err = s.repos.Streak.GetByUserID(ctx, s.db, userID)
				if err != nil {
					return 0, err
				}
			}
			if current != nil {
				value = current.CurrentStreak
			}
		}

		counters[criteria] = value
		return value, nil
	}

	var failures []error
	for _, badge := range candidates {
		if unlocked[badge.ID] {
			continue
		}

		value, err := counter(badge.CriteriaType)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if value < badge.CriteriaValue {
			continue
		}

		unlock := &BadgeUnlock{
			UserID:     userID,
			BadgeID:    badge.ID,
			UnlockedAt: s.calendar.Now(),
		}
		if err := s.repos.Badge.CreateUnlock(ctx, s.db, unlock); err != nil {
			if database.IsDuplicateKeyError(err) {
				continue
			}
			failures = append(failures, err)
			continue
		}

		log.Info("badge unlocked", "userID", userID, "badge", badge.Slug)
		result.UnlockedBadges = append(result.UnlockedBadges, badge)

		if err := s.awardXP(ctx, userID, settings.XPFor(XPActionBadgeUnlocked), settings, result); err != nil {
			failures = append(failures, err)
		}

		s.notify(ctx, userID, NotificationKindBadgeUnlocked,
			fmt.Sprintf("Badge unlocked: %s", badge.Name),
			badge.Description,
			map[string]any{"badgeId": badge.ID.String(), "slug": badge.Slug},
		)
	}

	return errors.Join(failures...)
}

// CheckStreakReset zeroes the user's streak when the last activity is older than yesterday.
func (s *GamificationService) CheckStreakReset(ctx context.Context, userID uuid.UUID) (bool, error) {
	log := s.log.Function("CheckStreakReset")

	streak, err := s.repos.Streak.GetByUserID(ctx, s.db, userID)
	if err != nil {
		return false, log.Err("failed to load streak", err, "userID", userID)
	}

	today := s.calendar.Today()
	if streak == nil || !streak.IsLapsed(today) {
		return false, nil
	}

	return s.repos.Streak.ResetIfLapsed(ctx, s.db, streak.ID, today)
}

// ResetLapsedStreaks runs the periodic reset over every lapsed streak. A failing user is
// logged and counted; the batch continues.
func (s *GamificationService) ResetLapsedStreaks(ctx context.Context) (types.BatchResult, error) {
	log := s.log.Function("ResetLapsedStreaks")

	var result types.BatchResult
	today := s.calendar.Today()

	streaks, err := s.repos.Streak.GetLapsed(ctx, s.db, today)
	if err != nil {
		return result, log.Err("failed to load lapsed streaks", err, "today", today)
	}

	for _, streak := range streaks {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		reset, err := s.repos.Streak.ResetIfLapsed(ctx, s.db, streak.ID, today)
		if err != nil {
			log.Warn("failed to reset streak, skipping", "userID", streak.UserID, "error", err)
			result.Failed++
			continue
		}
		if !reset {
			result.Skipped++
			continue
		}

		result.Succeeded++
		s.notify(ctx, streak.UserID, NotificationKindStreakLost,
			"Your streak has ended",
			fmt.Sprintf("You reached %d days. Complete a mission today to start again.", streak.CurrentStreak),
			map[string]any{"previousStreak": streak.CurrentStreak, "longestStreak": streak.LongestStreak},
		)
	}

	log.Info("streak reset completed",
		"processed", result.Processed,
		"reset", result.Succeeded,
		"failed", result.Failed,
	)

	return result, nil
}

func (s *GamificationService) GetStreakInfo(ctx context.Context, userID uuid.UUID) (types.StreakInfo, error) {
	log := s.log.Function("GetStreakInfo")

	streak, err := s.repos.Streak.GetByUserID(ctx, s.db, userID)
	if err != nil {
		return types.StreakInfo{}, log.Err("failed to load streak", err, "userID", userID)
	}

	return streakInfo(streak, s.calendar.Today()), nil
}

// streakInfo reports a lapsed streak as zero even before the periodic reset ran.
func streakInfo(streak *Streak, today utils.Day) types.StreakInfo {
	status := streak.Status(today)
	info := types.StreakInfo{
		Status:   status,
		IsAtRisk: status == StreakStatusAtRisk,
	}
	if streak == nil {
		return info
	}

	info.CurrentStreak = streak.CurrentStreak
	info.LongestStreak = streak.LongestStreak
	info.LastActivityDate = streak.LastActivityDate
	if streak.IsLapsed(today) {
		info.CurrentStreak = 0
	}

	return info
}

func (s *GamificationService) GetStreakEncouragement(info types.StreakInfo) types.Encouragement {
	encouragement := types.Encouragement{
		Status:        info.Status,
		NextMilestone: nextMilestone(info.CurrentStreak),
	}

	switch info.Status {
	case StreakStatusNone:
		encouragement.Message = "Complete your first mission to start a streak."
	case StreakStatusSecured:
		if isMilestone(info.CurrentStreak) {
			encouragement.Milestone = info.CurrentStreak
			encouragement.Message = fmt.Sprintf("%d days in a row. Milestone reached!", info.CurrentStreak)
		} else {
			encouragement.Message = fmt.Sprintf("Streak secured for today: %d days.", info.CurrentStreak)
		}
	case StreakStatusAtRisk:
		encouragement.Message = fmt.Sprintf(
			"Complete a mission today to keep your %d-day streak.",
			info.CurrentStreak,
		)
	default:
		encouragement.Message = "Your streak ended. Complete a mission today to start a new one."
	}

	return encouragement
}

func isMilestone(days int) bool {
	for _, milestone := range streakMilestones {
		if days == milestone {
			return true
		}
	}
	return false
}

func nextMilestone(days int) int {
	for _, milestone := range streakMilestones {
		if milestone > days {
			return milestone
		}
	}
	return 0
}

func (s *GamificationService) GetLevelProgress(ctx context.Context, userID uuid.UUID) (types.LevelProgress, error) {
	log := s.log.Function("GetLevelProgress")

	user, err := s.repos.User.GetByID(ctx, s.db, userID)
	if err != nil {
		return types.LevelProgress{}, log.Err("failed to load user", err, "userID", userID)
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return types.LevelProgress{}, err
	}

	return levelProgress(settings.Levels, user.XPTotal), nil
}

func levelProgress(levels []*LevelThreshold, xp int) types.LevelProgress {
	progress := types.LevelProgress{
		Level:           LevelForXP(levels, xp),
		XPTotal:         xp,
		ProgressPercent: decimal.NewFromInt(100),
	}

	current := CurrentThreshold(levels, xp)
	if current != nil {
		progress.Title = current.Title
		progress.CurrentLevelXP = current.XPRequired
	}

	next := NextThreshold(levels, xp)
	if next == nil {
		return progress
	}

	progress.NextLevel = &next.Level
	progress.NextLevelXP = &next.XPRequired

	span := next.XPRequired - progress.CurrentLevelXP
	if span > 0 {
		progress.ProgressPercent = decimal.NewFromInt(int64(xp - progress.CurrentLevelXP)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(span))).
			Round(2)
	}

	return progress
}

func (s *GamificationService) GetUserBadges(ctx context.Context, userID uuid.UUID) ([]types.UserBadge, error) {
	unlocks, err := s.repos.Badge.GetUserUnlocks(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	badges := make([]types.UserBadge, 0, len(unlocks))
	for _, unlock := range unlocks {
		badges = append(badges, types.UserBadge{Badge: unlock.Badge, UnlockedAt: unlock.UnlockedAt})
	}

	return badges, nil
}

// RecordTutorialView stores the first view of a tutorial and gamifies it. Repeated views
// are accepted and change nothing.
func (s *GamificationService) RecordTutorialView(
	ctx context.Context,
	userID, tutorialID uuid.UUID,
) (types.TutorialViewResult, error) {
	log := s.log.Function("RecordTutorialView")

	if _, err := s.repos.Tutorial.GetByID(ctx, s.db, tutorialID); err != nil {
		return types.TutorialViewResult{}, err
	}

	view := &TutorialView{
		UserID:     userID,
		TutorialID: tutorialID,
		ViewedAt:   s.calendar.Now(),
	}
	if err := s.repos.Tutorial.CreateView(ctx, s.db, view); err != nil {
		if database.IsDuplicateKeyError(err) {
			return types.TutorialViewResult{FirstView: false}, nil
		}
		return types.TutorialViewResult{}, log.Err("failed to record tutorial view", err, "userID", userID)
	}

	gamification, err := s.RecordCompletion(ctx, userID, XPActionTutorialViewed)
	if err != nil {
		log.Warn("tutorial gamification failed", "userID", userID, "error", err)
	}

	return types.TutorialViewResult{FirstView: true, Gamification: gamification}, nil
}

func (s *GamificationService) notify(
	ctx context.Context,
	userID uuid.UUID,
	kind NotificationKind,
	title, body string,
	data map[string]any,
) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, kind, title, body, data); err != nil {
		s.log.Function("notify").Warn("notification failed", "userID", userID, "kind", kind, "error", err)
	}
}
