package repositories

import (
	"context"
	. "restocoach/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ContentIdeaRepository interface {
	GetActive(ctx context.Context, tx *gorm.DB) ([]*ContentIdea, error)
	Create(ctx context.Context, tx *gorm.DB, idea *ContentIdea) error
}

type contentIdeaRepository struct {
	log logger.Logger
}

func NewContentIdeaRepository() ContentIdeaRepository {
	return &contentIdeaRepository{
		log: logger.New("contentIdeaRepository"),
	}
}

func (r *contentIdeaRepository) GetActive(ctx context.Context, tx *gorm.DB) ([]*ContentIdea, error) {
	log := r.log.Function("GetActive")

	ideas, err := gorm.G[*ContentIdea](tx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("id ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get active content ideas", err)
	}

	return ideas, nil
}

func (r *contentIdeaRepository) Create(ctx context.Context, tx *gorm.DB, idea *ContentIdea) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(idea).Error; err != nil {
		return log.Err("failed to create content idea", err)
	}

	return nil
}
