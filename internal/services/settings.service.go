package services

import (
	"context"
	"restocoach/internal/constants"
	"restocoach/internal/database"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"
	"slices"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// GamificationSettings is a read-only snapshot of levels, XP actions and active badges,
// loaded once per request or job and passed by reference.
type GamificationSettings struct {
	Levels    []*LevelThreshold    `json:"levels"`
	XpActions map[string]*XpAction `json:"xpActions"`
	Badges    []*Badge             `json:"badges"`
}

func (s *GamificationSettings) XPFor(action string) int {
	if s == nil {
		return 0
	}
	return s.XpActions[action].Award()
}

func (s *GamificationSettings) BadgesFor(criteria []BadgeCriteria) []*Badge {
	if s == nil {
		return nil
	}

	var matching []*Badge
	for _, badge := range s.Badges {
		if badge.IsActive && slices.Contains(criteria, badge.CriteriaType) {
			matching = append(matching, badge)
		}
	}
	return matching
}

type SettingsService struct {
	repo  repositories.SettingsRepository
	badge repositories.BadgeRepository
	db    *gorm.DB
	cache database.CacheClient
	log   logger.Logger
}

func NewSettingsService(
	repos repositories.Repository,
	db *gorm.DB,
	cache database.CacheClient,
) *SettingsService {
	return &SettingsService{
		repo:  repos.Settings,
		badge: repos.Badge,
		db:    db,
		cache: cache,
		log:   logger.New("settingsService"),
	}
}

// Load returns the gamification settings snapshot, read through the general cache.
func (s *SettingsService) Load(ctx context.Context) (*GamificationSettings, error) {
	return s.entry().Fetch(ctx, s.log.Function("Load"), s.loadFromDB)
}

func (s *SettingsService) entry() database.CacheEntry[*GamificationSettings] {
	return database.NewCacheEntry[*GamificationSettings](
		s.cache,
		constants.SettingsCachePrefix,
		constants.SettingsCacheKey,
		constants.SettingsCacheExpiry,
	)
}

func (s *SettingsService) loadFromDB(ctx context.Context) (*GamificationSettings, error) {
	log := s.log.Function("loadFromDB")

	levels, err := s.repo.ListLevels(ctx, s.db)
	if err != nil {
		return nil, log.Err("failed to load level thresholds", err)
	}

	actions, err := s.repo.ListXpActions(ctx, s.db)
	if err != nil {
		return nil, log.Err("failed to load xp actions", err)
	}

	badges, err := s.badge.ListActive(ctx, s.db)
	if err != nil {
		return nil, log.Err("failed to load badges", err)
	}

	settings := &GamificationSettings{
		Levels:    levels,
		XpActions: make(map[string]*XpAction, len(actions)),
		Badges:    badges,
	}
	for _, action := range actions {
		settings.XpActions[action.ActionType] = action
	}

	return settings, nil
}

// Invalidate drops the cached snapshot after an admin write.
func (s *SettingsService) Invalidate(ctx context.Context) {
	if err := s.entry().Delete(ctx); err != nil {
		s.log.Function("Invalidate").Warn("failed to invalidate settings cache", "error", err)
	}
}
