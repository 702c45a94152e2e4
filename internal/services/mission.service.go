package services

import (
	"context"
	"errors"
	"html"
	"restocoach/config"
	"restocoach/internal/database"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"
	"restocoach/internal/types"
	"restocoach/internal/utils"
	"strings"
	"unicode/utf8"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	DEFAULT_HISTORY_LIMIT = 30
	MAX_HISTORY_LIMIT     = 100
)

type MissionRules struct {
	MissionsPerDay     int
	RotationWindowDays int
	MaxSkipsPerDay     int
	MaxReloadsPerDay   int
}

func MissionRulesFromConfig(config config.Config) MissionRules {
	rules := MissionRules{
		MissionsPerDay:     config.MissionsPerDay,
		RotationWindowDays: config.RotationWindowDays,
		MaxSkipsPerDay:     config.MaxSkipsPerDay,
		MaxReloadsPerDay:   config.MaxReloadsPerDay,
	}
	if rules.MissionsPerDay < 1 {
		rules.MissionsPerDay = 3
	}
	if rules.RotationWindowDays < 0 {
		rules.RotationWindowDays = 0
	}
	return rules
}

type MissionService struct {
	repos        repositories.Repository
	db           *gorm.DB
	calendar     *utils.Calendar
	rules        MissionRules
	gamification *GamificationService
	sanitizer    *bluemonday.Policy
	log          logger.Logger
}

func NewMissionService(
	repos repositories.Repository,
	db *gorm.DB,
	calendar *utils.Calendar,
	rules MissionRules,
	gamification *GamificationService,
) *MissionService {
	return &MissionService{
		repos:        repos,
		db:           db,
		calendar:     calendar,
		rules:        rules,
		gamification: gamification,
		sanitizer:    bluemonday.StrictPolicy(),
		log:          logger.New("missionService"),
	}
}

// GetTodayMissions returns today's missions, assigning them on the first call of the day.
// Concurrent first calls race on the (user, slot, day) unique index; the loser re-reads.
func (s *MissionService) GetTodayMissions(ctx context.Context, userID uuid.UUID) ([]*Mission, error) {
	log := s.log.Function("GetTodayMissions")

	today := s.calendar.Today()

	existing, err := s.repos.Mission.GetForDay(ctx, s.db, userID, today)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	missions, err := s.buildDay(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if len(missions) == 0 {
		return []*Mission{}, nil
	}

	if err := s.repos.Mission.CreateBatch(ctx, s.db, missions); err != nil {
		if !database.IsDuplicateKeyError(err) {
			return nil, log.Err("failed to assign missions", err, "userID", userID, "day", today)
		}
		log.Info("missions already assigned by a concurrent request", "userID", userID, "day", today)
	}

	return s.repos.Mission.GetForDay(ctx, s.db, userID, today)
}

func (s *MissionService) buildDay(ctx context.Context, userID uuid.UUID, today utils.Day) ([]*Mission, error) {
	restaurant, err := s.repos.Restaurant.GetByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	slots := s.rules.MissionsPerDay
	var strategyID *uuid.UUID
	restaurantType := ""
	if restaurant != nil {
		strategyID = restaurant.StrategyID
		restaurantType = restaurant.RestaurantType
		slots = restaurant.PublicationRhythm.SlotsPerDay(slots)
	}

	templates, err := s.repos.Template.GetActiveForStrategy(ctx, s.db, strategyID)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		s.log.Function("buildDay").Info("no active templates for strategy", "userID", userID, "strategyID", strategyID)
		return nil, nil
	}

	history, err := s.history(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	ideas, err := s.repos.ContentIdea.GetActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	plan := planDay(templates, history, slots)
	now := s.calendar.Now()
	takenIdeas := make(map[uuid.UUID]bool, len(plan.templates))
	missions := make([]*Mission, 0, len(plan.templates))

	for i, template := range plan.templates {
		mission := &Mission{
			UserID:        userID,
			TemplateID:    template.ID,
			SlotNumber:    i + 1,
			Day:           today,
			Status:        MissionStatusPending,
			IsRecommended: i == plan.recommended,
			AssignedAt:    now,
		}
		applyIdea(mission, template, pickIdea(ideas, restaurantType, template, history, takenIdeas))
		if mission.ContentIdeaID != nil {
			takenIdeas[*mission.ContentIdeaID] = true
		}
		missions = append(missions, mission)
	}

	return missions, nil
}

func (s *MissionService) history(ctx context.Context, userID uuid.UUID, today utils.Day) (missionHistory, error) {
	if s.rules.RotationWindowDays == 0 {
		return newMissionHistory(nil), nil
	}

	recent, err := s.repos.Mission.GetAssignedSince(
		ctx,
		s.db,
		userID,
		today.AddDays(-s.rules.RotationWindowDays),
		today,
	)
	if err != nil {
		return missionHistory{}, err
	}

	return newMissionHistory(recent), nil
}

func applyIdea(mission *Mission, template *MissionTemplate, idea *ContentIdea) {
	if idea == nil {
		mission.ContentIdeaID = nil
		mission.IdeaText = template.DefaultIdea
		return
	}
	id := idea.ID
	mission.ContentIdeaID = &id
	mission.IdeaText = idea.Text
}

// GetTodayMission returns the recommended mission of today's set, slot 1 when none is flagged,
// and nil when the set is empty.
func (s *MissionService) GetTodayMission(ctx context.Context, userID uuid.UUID) (*Mission, error) {
	missions, err := s.GetTodayMissions(ctx, userID)
	if err != nil || len(missions) == 0 {
		return nil, err
	}

	for _, mission := range missions {
		if mission.IsRecommended {
			return mission, nil
		}
	}

	return missions[0], nil
}

// loadActionable applies the ownership, state and same-day checks shared by every mission action.
func (s *MissionService) loadActionable(
	ctx context.Context,
	missionID, userID uuid.UUID,
) (*Mission, *types.MissionActionResult, error) {
	mission, err := s.repos.Mission.GetByID(ctx, s.db, missionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			failure := types.MissionActionFailed(types.MissionErrorNotFound, "Mission not found")
			return nil, &failure, nil
		}
		return nil, nil, err
	}

	if mission.UserID != userID {
		failure := types.MissionActionFailed(types.MissionErrorNotFound, "Mission not found")
		return nil, &failure, nil
	}

	if !mission.IsPending() {
		failure := types.MissionActionFailed(types.MissionErrorNotPending, "Mission was already acted upon")
		return nil, &failure, nil
	}

	if mission.Day != s.calendar.Today() {
		failure := types.MissionActionFailed(types.MissionErrorWindowClosed, "Mission can only be changed on its day")
		return nil, &failure, nil
	}

	return mission, nil, nil
}

func (s *MissionService) SkipMission(
	ctx context.Context,
	missionID, userID uuid.UUID,
) (types.MissionActionResult, error) {
	log := s.log.Function("SkipMission")

	mission, failure, err := s.loadActionable(ctx, missionID, userID)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	if failure != nil {
		return *failure, nil
	}

	skipped, err := s.repos.Mission.CountByStatusForDay(ctx, s.db, userID, mission.Day, MissionStatusSkipped)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	if int(skipped) >= s.rules.MaxSkipsPerDay {
		return types.MissionActionFailed(types.MissionErrorLimitReached, "Daily skip limit reached"), nil
	}

	now := s.calendar.Now()
	affected, err := s.repos.Mission.UpdateIfPending(ctx, s.db, missionID, map[string]any{
		"status":     MissionStatusSkipped,
		"skipped_at": now,
	})
	if err != nil {
		return types.MissionActionResult{}, err
	}
	if affected == 0 {
		return types.MissionActionFailed(types.MissionErrorNotPending, "Mission was already acted upon"), nil
	}

	log.Info("mission skipped", "missionID", missionID, "userID", userID)
	return s.reloaded(ctx, missionID)
}

func (s *MissionService) ReloadMission(
	ctx context.Context,
	missionID, userID uuid.UUID,
) (types.MissionActionResult, error) {
	log := s.log.Function("ReloadMission")

	mission, failure, err := s.loadActionable(ctx, missionID, userID)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	if failure != nil {
		return *failure, nil
	}

	reloads, err := s.repos.Mission.SumReloadsForDay(ctx, s.db, userID, mission.Day)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	if reloads >= s.rules.MaxReloadsPerDay {
		return types.MissionActionFailed(types.MissionErrorLimitReached, "Daily reload limit reached"), nil
	}

	dayMissions, err := s.repos.Mission.GetForDay(ctx, s.db, userID, mission.Day)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	excluded := map[uuid.UUID]bool{mission.TemplateID: true}
	takenIdeas := map[uuid.UUID]bool{}
	for _, other := range dayMissions {
		excluded[other.TemplateID] = true
		if other.ContentIdeaID != nil {
			takenIdeas[*other.ContentIdeaID] = true
		}
	}

	restaurant, err := s.repos.Restaurant.GetByUserID(ctx, s.db, userID)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	var strategyID *uuid.UUID
	restaurantType := ""
	if restaurant != nil {
		strategyID = restaurant.StrategyID
		restaurantType = restaurant.RestaurantType
	}

	templates, err := s.repos.Template.GetActiveForStrategy(ctx, s.db, strategyID)
	if err != nil {
		return types.MissionActionResult{}, err
	}

	history, err := s.history(ctx, userID, mission.Day)
	if err != nil {
		return types.MissionActionResult{}, err
	}

	replacement := pickAlternative(templates, history, excluded)
	if replacement == nil {
		return types.MissionActionFailed(types.MissionErrorNoAlternative, "No other mission available today"), nil
	}

	ideas, err := s.repos.ContentIdea.GetActive(ctx, s.db)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	applyIdea(mission, replacement, pickIdea(ideas, restaurantType, replacement, history, takenIdeas))

	affected, err := s.repos.Mission.UpdateIfPending(ctx, s.db, missionID, map[string]any{
		"template_id":     replacement.ID,
		"content_idea_id": mission.ContentIdeaID,
		"idea_text":       mission.IdeaText,
		"reload_count":    gorm.Expr("reload_count + 1"),
	})
	if err != nil {
		return types.MissionActionResult{}, err
	}
	if affected == 0 {
		return types.MissionActionFailed(types.MissionErrorNotPending, "Mission was already acted upon"), nil
	}

	log.Info("mission reloaded", "missionID", missionID, "userID", userID, "templateID", replacement.ID)
	return s.reloaded(ctx, missionID)
}

// CompleteMission marks the mission completed and triggers gamification. Gamification runs
// after the status change is stored and never turns a completion into a failure.
func (s *MissionService) CompleteMission(
	ctx context.Context,
	missionID, userID uuid.UUID,
	caption string,
) (types.MissionActionResult, error) {
	log := s.log.Function("CompleteMission")

	_, failure, err := s.loadActionable(ctx, missionID, userID)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	if failure != nil {
		return *failure, nil
	}

	now := s.calendar.Now()
	updates := map[string]any{
		"status":       MissionStatusCompleted,
		"completed_at": now,
	}
	if sanitized := s.SanitizeCaption(caption); sanitized != "" {
		updates["caption"] = sanitized
	}

	affected, err := s.repos.Mission.UpdateIfPending(ctx, s.db, missionID, updates)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	if affected == 0 {
		return types.MissionActionFailed(types.MissionErrorNotPending, "Mission was already acted upon"), nil
	}

	log.Info("mission completed", "missionID", missionID, "userID", userID)

	if err := s.repos.User.TouchLastActive(ctx, s.db, userID, now); err != nil {
		log.Warn("failed to update last activity", "userID", userID, "error", err)
	}

	result, err := s.reloaded(ctx, missionID)
	if err != nil {
		return result, err
	}

	if s.gamification != nil {
		gamification, err := s.gamification.RecordCompletion(ctx, userID, XPActionMissionCompleted)
		if err != nil {
			log.Warn("gamification failed after completion", "missionID", missionID, "error", err)
		}
		result.Gamification = gamification
	}

	return result, nil
}

// SanitizeCaption strips markup and bounds the caption length. The result is plain text, so the
// entities the sanitizer emits are decoded before measuring.
func (s *MissionService) SanitizeCaption(caption string) string {
	caption, _ = utils.CleanUTF8(caption)
	sanitized := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(caption)))
	if utf8.RuneCountInString(sanitized) <= MaxCaptionLength {
		return sanitized
	}
	return strings.TrimSpace(string([]rune(sanitized)[:MaxCaptionLength]))
}

func (s *MissionService) reloaded(ctx context.Context, missionID uuid.UUID) (types.MissionActionResult, error) {
	mission, err := s.repos.Mission.GetByID(ctx, s.db, missionID)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	return types.MissionActionSucceeded(mission), nil
}

func (s *MissionService) GetMissionHistory(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*Mission, error) {
	if limit <= 0 {
		limit = DEFAULT_HISTORY_LIMIT
	}
	if limit > MAX_HISTORY_LIMIT {
		limit = MAX_HISTORY_LIMIT
	}

	return s.repos.Mission.GetHistory(ctx, s.db, userID, limit)
}

// AssignForAllUsers pre-assigns today's missions for every active user.
func (s *MissionService) AssignForAllUsers(ctx context.Context) (types.BatchResult, error) {
	log := s.log.Function("AssignForAllUsers")

	var result types.BatchResult

	userIDs, err := s.repos.User.ListActiveIDs(ctx, s.db)
	if err != nil {
		return result, log.Err("failed to list active users", err)
	}

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		missions, err := s.GetTodayMissions(ctx, userID)
		if err != nil {
			log.Warn("failed to assign missions, skipping", "userID", userID, "error", err)
			result.Failed++
			continue
		}
		if len(missions) == 0 {
			result.Skipped++
			continue
		}
		result.Succeeded++
	}

	log.Info("mission assignment completed",
		"processed", result.Processed,
		"assigned", result.Succeeded,
		"empty", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}
