package gamificationController

import (
	"context"
	"fmt"
	. "restocoach/internal/models"
	"restocoach/internal/services"
	"restocoach/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type GamificationControllerInterface interface {
	GetStreak(ctx context.Context, user *User) (*StreakResponse, error)
	GetLevel(ctx context.Context, user *User) (types.LevelProgress, error)
	GetBadges(ctx context.Context, user *User) ([]types.UserBadge, error)
	RecordTutorialView(ctx context.Context, user *User, rawID string) (types.TutorialViewResult, error)
}

type GamificationController struct {
	gamificationService *services.GamificationService
	log                 logger.Logger
}

type StreakResponse struct {
	Streak        types.StreakInfo    `json:"streak"`
	Encouragement types.Encouragement `json:"encouragement"`
}

func New(services services.Service) GamificationControllerInterface {
	return &GamificationController{
		gamificationService: services.Gamification,
		log:                 logger.New("gamificationController"),
	}
}

func (gc *GamificationController) GetStreak(ctx context.Context, user *User) (*StreakResponse, error) {
	info, err := gc.gamificationService.GetStreakInfo(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &StreakResponse{
		Streak:        info,
		Encouragement: gc.gamificationService.GetStreakEncouragement(info),
	}, nil
}

func (gc *GamificationController) GetLevel(ctx context.Context, user *User) (types.LevelProgress, error) {
	return gc.gamificationService.GetLevelProgress(ctx, user.ID)
}

func (gc *GamificationController) GetBadges(ctx context.Context, user *User) ([]types.UserBadge, error) {
	return gc.gamificationService.GetUserBadges(ctx, user.ID)
}

func (gc *GamificationController) RecordTutorialView(
	ctx context.Context,
	user *User,
	rawID string,
) (types.TutorialViewResult, error) {
	tutorialID, err := uuid.Parse(rawID)
	if err != nil {
		return types.TutorialViewResult{}, fmt.Errorf("%w: invalid tutorial id", services.ErrValidation)
	}

	result, err := gc.gamificationService.RecordTutorialView(ctx, user.ID, tutorialID)
	if err != nil {
		return result, err
	}

	if result.FirstView {
		gc.log.Function("RecordTutorialView").Info("Tutorial viewed for the first time",
			"userID", user.ID,
			"tutorialID", tutorialID,
		)
	}
	return result, nil
}
