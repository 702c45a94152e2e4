package repositories

import (
	"context"
	"errors"
	. "restocoach/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RestaurantRepository interface {
	// GetByUserID returns nil without error when the user has no restaurant yet.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Restaurant, error)
	Upsert(ctx context.Context, tx *gorm.DB, restaurant *Restaurant) error
}

type restaurantRepository struct {
	log logger.Logger
}

func NewRestaurantRepository() RestaurantRepository {
	return &restaurantRepository{
		log: logger.New("restaurantRepository"),
	}
}

func (r *restaurantRepository) GetByUserID(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*Restaurant, error) {
	log := r.log.Function("GetByUserID")

	restaurant, err := gorm.G[Restaurant](tx).Where("user_id = ?", userID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get restaurant", err, "userID", userID)
	}

	return &restaurant, nil
}

func (r *restaurantRepository) Upsert(ctx context.Context, tx *gorm.DB, restaurant *Restaurant) error {
	log := r.log.Function("Upsert")

	if err := tx.WithContext(ctx).
		Omit("Strategy").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name",
				"restaurant_type",
				"strategy_id",
				"publication_rhythm",
				"tags",
				"updated_at",
			}),
		}).
		Create(restaurant).Error; err != nil {
		return log.Err("failed to upsert restaurant", err, "userID", restaurant.UserID)
	}

	return nil
}
