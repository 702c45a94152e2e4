package repositories

import (
	"context"
	"errors"
	. "restocoach/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	// GetActiveForStrategy loads active templates of the strategy, or the strategy-less
	// templates when strategyID is nil.
	GetActiveForStrategy(
		ctx context.Context,
		tx *gorm.DB,
		strategyID *uuid.UUID,
	) ([]*MissionTemplate, error)
	GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*MissionTemplate, error)
	List(ctx context.Context, tx *gorm.DB) ([]*MissionTemplate, error)
	Create(ctx context.Context, tx *gorm.DB, template *MissionTemplate) error
	Update(ctx context.Context, tx *gorm.DB, template *MissionTemplate) error
}

type templateRepository struct {
	log logger.Logger
}

func NewTemplateRepository() TemplateRepository {
	return &templateRepository{
		log: logger.New("templateRepository"),
	}
}

func (r *templateRepository) GetActiveForStrategy(
	ctx context.Context,
	tx *gorm.DB,
	strategyID *uuid.UUID,
) ([]*MissionTemplate, error) {
	log := r.log.Function("GetActiveForStrategy")

	query := gorm.G[*MissionTemplate](tx).
		Preload("Category", nil).
		Where("is_active = ?", true)

	if strategyID != nil {
		query = query.Where("strategy_id = ?", *strategyID)
	} else {
		query = query.Where("strategy_id IS NULL")
	}

	templates, err := query.Order("sort_order ASC").Order("id ASC").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get active templates", err, "strategyID", strategyID)
	}

	return templates, nil
}

func (r *templateRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	templateID uuid.UUID,
) (*MissionTemplate, error) {
	log := r.log.Function("GetByID")

	template, err := gorm.G[MissionTemplate](tx).
		Preload("Category", nil).
		Where("id = ?", templateID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get template", err, "templateID", templateID)
	}

	return &template, nil
}

func (r *templateRepository) List(ctx context.Context, tx *gorm.DB) ([]*MissionTemplate, error) {
	log := r.log.Function("List")

	templates, err := gorm.G[*MissionTemplate](tx).
		Preload("Category", nil).
		Order("sort_order ASC").
		Order("id ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list templates", err)
	}

	return templates, nil
}

func (r *templateRepository) Create(ctx context.Context, tx *gorm.DB, template *MissionTemplate) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Omit("Category", "Tutorial").Create(template).Error; err != nil {
		return log.Err("failed to create template", err, "title", template.Title)
	}

	return nil
}

func (r *templateRepository) Update(ctx context.Context, tx *gorm.DB, template *MissionTemplate) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Omit("Category", "Tutorial").Save(template).Error; err != nil {
		return log.Err("failed to update template", err, "templateID", template.ID)
	}

	return nil
}
