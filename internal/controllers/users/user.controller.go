package userController

import (
	"context"
	. "restocoach/internal/models"
	"restocoach/internal/services"
	"restocoach/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type UserControllerInterface interface {
	GetProfile(ctx context.Context, user *User) (*ProfileResponse, error)
	UpdateRestaurant(ctx context.Context, user *User, req RestaurantRequest) (*Restaurant, error)
}

type UserController struct {
	userService         *services.UserService
	gamificationService *services.GamificationService
	log                 logger.Logger
}

type ProfileResponse struct {
	User   UserProfile       `json:"user"`
	Streak *types.StreakInfo `json:"streak,omitempty"`
}

type RestaurantRequest struct {
	Name              string            `json:"name"`
	RestaurantType    string            `json:"restaurantType"`
	StrategyID        *uuid.UUID        `json:"strategyId"`
	PublicationRhythm PublicationRhythm `json:"publicationRhythm"`
	Tags              []string          `json:"tags"`
}

func (r RestaurantRequest) toModel() *Restaurant {
	return &Restaurant{
		Name:              r.Name,
		RestaurantType:    r.RestaurantType,
		StrategyID:        r.StrategyID,
		PublicationRhythm: r.PublicationRhythm,
		Tags:              r.Tags,
	}
}

func New(services services.Service) UserControllerInterface {
	return &UserController{
		userService:         services.User,
		gamificationService: services.Gamification,
		log:                 logger.New("userController"),
	}
}

// GetProfile returns the profile with its current streak. A streak lookup failure only drops the streak.
func (uc *UserController) GetProfile(ctx context.Context, user *User) (*ProfileResponse, error) {
	log := uc.log.Function("GetProfile")

	response := &ProfileResponse{User: user.ToProfile()}

	streak, err := uc.gamificationService.GetStreakInfo(ctx, user.ID)
	if err != nil {
		log.Warn("failed to load streak for profile", "userID", user.ID, "error", err)
		return response, nil
	}
	response.Streak = &streak

	return response, nil
}

func (uc *UserController) UpdateRestaurant(
	ctx context.Context,
	user *User,
	req RestaurantRequest,
) (*Restaurant, error) {
	return uc.userService.UpdateRestaurant(ctx, user.ID, req.toModel())
}
