package initialize

import (
	"context"
	"restocoach/config"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// InitializeTables installs the gamification defaults a fresh production database needs.
// Existing rows are never overwritten.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	ctx := context.Background()
	repo := repositories.NewSettingsRepository()

	if err := initializeLevels(ctx, db, repo, log); err != nil {
		return log.Err("failed to initialize levels", err)
	}

	if err := initializeXpActions(ctx, db, repo, log); err != nil {
		return log.Err("failed to initialize xp actions", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeLevels(
	ctx context.Context,
	db *gorm.DB,
	repo repositories.SettingsRepository,
	log logger.Logger,
) error {
	existing, err := repo.ListLevels(ctx, db)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Debug("Level table already populated", "count", len(existing))
		return nil
	}

	levels := DefaultLevels()
	if err := repo.ReplaceLevels(ctx, db, levels); err != nil {
		return err
	}
	log.Info("Default levels initialized", "count", len(levels))
	return nil
}

func initializeXpActions(
	ctx context.Context,
	db *gorm.DB,
	repo repositories.SettingsRepository,
	log logger.Logger,
) error {
	existing, err := repo.ListXpActions(ctx, db)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(existing))
	for _, action := range existing {
		known[action.ActionType] = true
	}

	missing := make([]*XpAction, 0)
	for _, action := range DefaultXpActions() {
		if !known[action.ActionType] {
			missing = append(missing, action)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if err := repo.UpsertXpActions(ctx, db, missing); err != nil {
		return err
	}
	log.Info("Default xp actions initialized", "count", len(missing))
	return nil
}

func DefaultLevels() []*LevelThreshold {
	return []*LevelThreshold{
		{Level: 1, XPRequired: 0, Title: "Commis"},
		{Level: 2, XPRequired: 50, Title: "Chef de partie"},
		{Level: 3, XPRequired: 150, Title: "Sous-chef"},
		{Level: 4, XPRequired: 350, Title: "Chef"},
		{Level: 5, XPRequired: 700, Title: "Chef étoilé"},
	}
}

func DefaultXpActions() []*XpAction {
	return []*XpAction{
		{ActionType: XPActionMissionCompleted, XPAmount: 10, IsActive: true, Description: "Mission completed"},
		{ActionType: XPActionTutorialViewed, XPAmount: 5, IsActive: true, Description: "Tutorial viewed"},
		{ActionType: XPActionBadgeUnlocked, XPAmount: 0, IsActive: false, Description: "Badge unlocked"},
	}
}
