package repositories

import (
	"context"
	. "restocoach/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository reads and writes the gamification tuning tables.
type SettingsRepository interface {
	ListLevels(ctx context.Context, tx *gorm.DB) ([]*LevelThreshold, error)
	ListXpActions(ctx context.Context, tx *gorm.DB) ([]*XpAction, error)
	ReplaceLevels(ctx context.Context, tx *gorm.DB, levels []*LevelThreshold) error
	UpsertXpActions(ctx context.Context, tx *gorm.DB, actions []*XpAction) error
}

type settingsRepository struct {
	log logger.Logger
}

func NewSettingsRepository() SettingsRepository {
	return &settingsRepository{
		log: logger.New("settingsRepository"),
	}
}

func (r *settingsRepository) ListLevels(ctx context.Context, tx *gorm.DB) ([]*LevelThreshold, error) {
	log := r.log.Function("ListLevels")

	levels, err := gorm.G[*LevelThreshold](tx).Order("xp_required ASC").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list level thresholds", err)
	}

	return levels, nil
}

func (r *settingsRepository) ListXpActions(ctx context.Context, tx *gorm.DB) ([]*XpAction, error) {
	log := r.log.Function("ListXpActions")

	actions, err := gorm.G[*XpAction](tx).Order("action_type ASC").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list xp actions", err)
	}

	return actions, nil
}

// ReplaceLevels swaps the whole level table. Callers run it inside a transaction.
func (r *settingsRepository) ReplaceLevels(ctx context.Context, tx *gorm.DB, levels []*LevelThreshold) error {
	log := r.log.Function("ReplaceLevels")

	if err := tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&LevelThreshold{}).Error; err != nil {
		return log.Err("failed to clear level thresholds", err)
	}

	if len(levels) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Create(&levels).Error; err != nil {
		return log.Err("failed to create level thresholds", err, "count", len(levels))
	}

	return nil
}

func (r *settingsRepository) UpsertXpActions(ctx context.Context, tx *gorm.DB, actions []*XpAction) error {
	log := r.log.Function("UpsertXpActions")

	if len(actions) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "action_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"xp_amount", "is_active", "description", "updated_at"}),
		}).
		Create(&actions).Error; err != nil {
		return log.Err("failed to upsert xp actions", err, "count", len(actions))
	}

	return nil
}
