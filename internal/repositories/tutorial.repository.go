package repositories

import (
	"context"
	"errors"
	. "restocoach/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TutorialRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, tutorialID uuid.UUID) (*Tutorial, error)
	// CreateView returns the raw duplicate key error when the user already viewed the tutorial.
	CreateView(ctx context.Context, tx *gorm.DB, view *TutorialView) error
	CountViews(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type tutorialRepository struct {
	log logger.Logger
}

func NewTutorialRepository() TutorialRepository {
	return &tutorialRepository{
		log: logger.New("tutorialRepository"),
	}
}

func (r *tutorialRepository) GetByID(ctx context.Context, tx *gorm.DB, tutorialID uuid.UUID) (*Tutorial, error) {
	log := r.log.Function("GetByID")

	tutorial, err := gorm.G[Tutorial](tx).Where("id = ? AND is_active = ?", tutorialID, true).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get tutorial", err, "tutorialID", tutorialID)
	}

	return &tutorial, nil
}

func (r *tutorialRepository) CreateView(ctx context.Context, tx *gorm.DB, view *TutorialView) error {
	return gorm.G[TutorialView](tx).Create(ctx, view)
}

func (r *tutorialRepository) CountViews(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	log := r.log.Function("CountViews")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&TutorialView{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count tutorial views", err, "userID", userID)
	}

	return count, nil
}
