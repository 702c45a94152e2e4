package repositories

import (
	"context"
	"errors"
	. "restocoach/internal/models"
	"restocoach/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StreakRepository interface {
	// GetByUserID returns nil without error when the user never had a streak.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Streak, error)
	// Create returns the raw duplicate key error when a concurrent request created the row first.
	Create(ctx context.Context, tx *gorm.DB, streak *Streak) error
	Save(ctx context.Context, tx *gorm.DB, streak *Streak) error
	GetLapsed(ctx context.Context, tx *gorm.DB, today utils.Day) ([]*Streak, error)
	// ResetIfLapsed zeroes the streak in one conditional statement and reports whether it did.
	ResetIfLapsed(ctx context.Context, tx *gorm.DB, streakID uuid.UUID, today utils.Day) (bool, error)
}

type streakRepository struct {
	log logger.Logger
}

func NewStreakRepository() StreakRepository {
	return &streakRepository{
		log: logger.New("streakRepository"),
	}
}

func (r *streakRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Streak, error) {
	log := r.log.Function("GetByUserID")

	streak, err := gorm.G[Streak](tx).Where("user_id = ?", userID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get streak", err, "userID", userID)
	}

	return &streak, nil
}

func (r *streakRepository) Create(ctx context.Context, tx *gorm.DB, streak *Streak) error {
	return gorm.G[Streak](tx).Create(ctx, streak)
}

func (r *streakRepository) Save(ctx context.Context, tx *gorm.DB, streak *Streak) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).
		Model(&Streak{}).
		Where("id = ?", streak.ID).
		Updates(map[string]any{
			"current_streak":     streak.CurrentStreak,
			"longest_streak":     streak.LongestStreak,
			"last_activity_date": streak.LastActivityDate,
		}).Error; err != nil {
		return log.Err("failed to save streak", err, "userID", streak.UserID)
	}

	return nil
}

func (r *streakRepository) GetLapsed(ctx context.Context, tx *gorm.DB, today utils.Day) ([]*Streak, error) {
	log := r.log.Function("GetLapsed")

	streaks, err := gorm.G[*Streak](tx).
		Where("current_streak > 0").
		Where("(last_activity_date IS NULL OR last_activity_date < ?)", today.AddDays(-1)).
		Order("user_id ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get lapsed streaks", err, "today", today)
	}

	return streaks, nil
}

func (r *streakRepository) ResetIfLapsed(
	ctx context.Context,
	tx *gorm.DB,
	streakID uuid.UUID,
	today utils.Day,
) (bool, error) {
	log := r.log.Function("ResetIfLapsed")

	result := tx.WithContext(ctx).
		Model(&Streak{}).
		Where("id = ? AND current_streak > 0", streakID).
		Where("(last_activity_date IS NULL OR last_activity_date < ?)", today.AddDays(-1)).
		Update("current_streak", 0)
	if result.Error != nil {
		return false, log.Err("failed to reset streak", result.Error, "streakID", streakID)
	}

	return result.RowsAffected > 0, nil
}
