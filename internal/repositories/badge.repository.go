package repositories

import (
	"context"
	. "restocoach/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	ListActive(ctx context.Context, tx *gorm.DB) ([]*Badge, error)
	GetUnlockedBadgeIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[uuid.UUID]bool, error)
	// CreateUnlock returns the raw duplicate key error when the badge is already unlocked.
	CreateUnlock(ctx context.Context, tx *gorm.DB, unlock *BadgeUnlock) error
	GetUserUnlocks(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*BadgeUnlock, error)
	UpsertBySlug(ctx context.Context, tx *gorm.DB, badges []*Badge) error
}

type badgeRepository struct {
	log logger.Logger
}

func NewBadgeRepository() BadgeRepository {
	return &badgeRepository{
		log: logger.New("badgeRepository"),
	}
}

func (r *badgeRepository) ListActive(ctx context.Context, tx *gorm.DB) ([]*Badge, error) {
	log := r.log.Function("ListActive")

	badges, err := gorm.G[*Badge](tx).
		Where("is_active = ?", true).
		Order("criteria_value ASC").
		Order("id ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list active badges", err)
	}

	return badges, nil
}

func (r *badgeRepository) GetUnlockedBadgeIDs(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (map[uuid.UUID]bool, error) {
	log := r.log.Function("GetUnlockedBadgeIDs")

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).
		Model(&BadgeUnlock{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error; err != nil {
		return nil, log.Err("failed to get unlocked badges", err, "userID", userID)
	}

	unlocked := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}

	return unlocked, nil
}

func (r *badgeRepository) CreateUnlock(ctx context.Context, tx *gorm.DB, unlock *BadgeUnlock) error {
	return tx.WithContext(ctx).Omit("Badge").Create(unlock).Error
}

func (r *badgeRepository) GetUserUnlocks(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*BadgeUnlock, error) {
	log := r.log.Function("GetUserUnlocks")

	unlocks, err := gorm.G[*BadgeUnlock](tx).
		Preload("Badge", nil).
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get user badges", err, "userID", userID)
	}

	return unlocks, nil
}

func (r *badgeRepository) UpsertBySlug(ctx context.Context, tx *gorm.DB, badges []*Badge) error {
	log := r.log.Function("UpsertBySlug")

	if len(badges) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name",
				"description",
				"icon",
				"criteria_type",
				"criteria_value",
				"is_active",
				"updated_at",
			}),
		}).
		Create(&badges).Error; err != nil {
		return log.Err("failed to upsert badges", err, "count", len(badges))
	}

	return nil
}
