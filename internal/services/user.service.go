package services

import (
	"context"
	"errors"
	"fmt"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	repos repositories.Repository
	db    *gorm.DB
	log   logger.Logger
}

func NewUserService(repos repositories.Repository, db *gorm.DB) *UserService {
	return &UserService{
		repos: repos,
		db:    db,
		log:   logger.New("userService"),
	}
}

// GetActiveUser loads the user behind a verified token. Unknown and deactivated users are not found.
func (s *UserService) GetActiveUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := s.repos.User.GetByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return user, nil
}

// UpdateRestaurant stores the caller's restaurant profile, which drives strategy, slot count
// and idea matching from the next assignment on.
func (s *UserService) UpdateRestaurant(
	ctx context.Context,
	userID uuid.UUID,
	restaurant *Restaurant,
) (*Restaurant, error) {
	log := s.log.Function("UpdateRestaurant")

	restaurant.Name = strings.TrimSpace(restaurant.Name)
	if restaurant.Name == "" {
		return nil, fmt.Errorf("%w: restaurant name is required", ErrValidation)
	}
	if restaurant.PublicationRhythm != "" && !restaurant.PublicationRhythm.Valid() {
		return nil, fmt.Errorf("%w: unknown publication rhythm %q", ErrValidation, restaurant.PublicationRhythm)
	}

	restaurant.ID = uuid.Nil
	restaurant.UserID = userID
	if err := s.repos.Restaurant.Upsert(ctx, s.db, restaurant); err != nil {
		return nil, err
	}
	s.repos.User.ClearUserCache(ctx, userID)

	log.Info("restaurant profile updated", "userID", userID)
	return s.repos.Restaurant.GetByUserID(ctx, s.db, userID)
}
