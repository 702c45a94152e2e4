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

type MissionRepository interface {
	GetForDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day utils.Day) ([]*Mission, error)
	GetByID(ctx context.Context, tx *gorm.DB, missionID uuid.UUID) (*Mission, error)
	// CreateBatch inserts every slot of a day in one statement. A duplicate key error
	// means another request already assigned the day.
	CreateBatch(ctx context.Context, tx *gorm.DB, missions []*Mission) error
	GetAssignedSince(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		since utils.Day,
		before utils.Day,
	) ([]*Mission, error)
	// UpdateIfPending applies updates only while the mission is still pending and returns
	// the number of rows changed.
	UpdateIfPending(
		ctx context.Context,
		tx *gorm.DB,
		missionID uuid.UUID,
		updates map[string]any,
	) (int64, error)
	CountByStatusForDay(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		day utils.Day,
		status MissionStatus,
	) (int64, error)
	SumReloadsForDay(ctx context.Context, tx *gorm.DB, userID uuid.UUID, day utils.Day) (int, error)
	CountCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	GetHistory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*Mission, error)
	GetPendingRecommendedForDay(ctx context.Context, tx *gorm.DB, day utils.Day) ([]*Mission, error)
}

type missionRepository struct {
	log logger.Logger
}

func NewMissionRepository() MissionRepository {
	return &missionRepository{
		log: logger.New("missionRepository"),
	}
}

func (r *missionRepository) GetForDay(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	day utils.Day,
) ([]*Mission, error) {
	log := r.log.Function("GetForDay")

	missions, err := gorm.G[*Mission](tx).
		Preload("Template", nil).
		Preload("Template.Category", nil).
		Preload("Template.Tutorial", nil).
		Where("user_id = ? AND day = ?", userID, day).
		Order("slot_number ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get missions for day", err, "userID", userID, "day", day)
	}

	return missions, nil
}

func (r *missionRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	missionID uuid.UUID,
) (*Mission, error) {
	log := r.log.Function("GetByID")

	mission, err := gorm.G[Mission](tx).
		Preload("Template", nil).
		Preload("Template.Category", nil).
		Where("id = ?", missionID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get mission", err, "missionID", missionID)
	}

	return &mission, nil
}

func (r *missionRepository) CreateBatch(ctx context.Context, tx *gorm.DB, missions []*Mission) error {
	if len(missions) == 0 {
		return nil
	}

	return tx.WithContext(ctx).Omit("Template").Create(&missions).Error
}

func (r *missionRepository) GetAssignedSince(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	since utils.Day,
	before utils.Day,
) ([]*Mission, error) {
	log := r.log.Function("GetAssignedSince")

	missions, err := gorm.G[*Mission](tx).
		Preload("Template", nil).
		Where("user_id = ? AND day >= ? AND day < ?", userID, since, before).
		Order("day DESC").
		Order("slot_number ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get recent missions", err, "userID", userID, "since", since)
	}

	return missions, nil
}

func (r *missionRepository) UpdateIfPending(
	ctx context.Context,
	tx *gorm.DB,
	missionID uuid.UUID,
	updates map[string]any,
) (int64, error) {
	log := r.log.Function("UpdateIfPending")

	result := tx.WithContext(ctx).
		Model(&Mission{}).
		Where("id = ? AND status = ?", missionID, MissionStatusPending).
		Updates(updates)
	if result.Error != nil {
		return 0, log.Err("failed to update mission", result.Error, "missionID", missionID)
	}

	return result.RowsAffected, nil
}

func (r *missionRepository) CountByStatusForDay(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	day utils.Day,
	status MissionStatus,
) (int64, error) {
	log := r.log.Function("CountByStatusForDay")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Mission{}).
		Where("user_id = ? AND day = ? AND status = ?", userID, day, status).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count missions", err, "userID", userID, "status", status)
	}

	return count, nil
}

func (r *missionRepository) SumReloadsForDay(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	day utils.Day,
) (int, error) {
	log := r.log.Function("SumReloadsForDay")

	var total int
	if err := tx.WithContext(ctx).
		Model(&Mission{}).
		Select("COALESCE(SUM(reload_count), 0)").
		Where("user_id = ? AND day = ?", userID, day).
		Scan(&total).Error; err != nil {
		return 0, log.Err("failed to sum reloads", err, "userID", userID, "day", day)
	}

	return total, nil
}

func (r *missionRepository) CountCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	log := r.log.Function("CountCompleted")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Mission{}).
		Where("user_id = ? AND status = ?", userID, MissionStatusCompleted).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count completed missions", err, "userID", userID)
	}

	return count, nil
}

func (r *missionRepository) GetHistory(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]*Mission, error) {
	log := r.log.Function("GetHistory")

	missions, err := gorm.G[*Mission](tx).
		Preload("Template", nil).
		Where("user_id = ? AND status IN ?", userID, []MissionStatus{MissionStatusCompleted, MissionStatusSkipped}).
		Order("assigned_at DESC").
		Order("slot_number ASC").
		Limit(limit).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get mission history", err, "userID", userID)
	}

	return missions, nil
}

func (r *missionRepository) GetPendingRecommendedForDay(
	ctx context.Context,
	tx *gorm.DB,
	day utils.Day,
) ([]*Mission, error) {
	log := r.log.Function("GetPendingRecommendedForDay")

	missions, err := gorm.G[*Mission](tx).
		Preload("Template", nil).
		Where("day = ? AND status = ? AND is_recommended = ?", day, MissionStatusPending, true).
		Order("user_id ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get pending recommended missions", err, "day", day)
	}

	return missions, nil
}
