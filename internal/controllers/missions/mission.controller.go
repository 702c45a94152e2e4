package missionController

import (
	"context"
	"fmt"
	. "restocoach/internal/models"
	"restocoach/internal/services"
	"restocoach/internal/types"
	"restocoach/internal/utils"
	"strconv"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type MissionControllerInterface interface {
	GetToday(ctx context.Context, user *User) (*TodayResponse, error)
	GetRecommended(ctx context.Context, user *User) (*Mission, error)
	GetHistory(ctx context.Context, user *User, rawLimit string) ([]*Mission, error)
	Skip(ctx context.Context, user *User, rawID string) (types.MissionActionResult, error)
	Reload(ctx context.Context, user *User, rawID string) (types.MissionActionResult, error)
	Complete(
		ctx context.Context,
		user *User,
		rawID string,
		req CompleteRequest,
	) (types.MissionActionResult, error)
}

type MissionController struct {
	missionService *services.MissionService
	calendar       *utils.Calendar
	log            logger.Logger
}

type TodayResponse struct {
	Day         string     `json:"day"`
	Missions    []*Mission `json:"missions"`
	Recommended *Mission   `json:"recommended,omitempty"`
}

type CompleteRequest struct {
	Caption string `json:"caption"`
}

func New(services services.Service) MissionControllerInterface {
	return &MissionController{
		missionService: services.Mission,
		calendar:       services.Calendar,
		log:            logger.New("missionController"),
	}
}

func (mc *MissionController) GetToday(ctx context.Context, user *User) (*TodayResponse, error) {
	missions, err := mc.missionService.GetTodayMissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	response := &TodayResponse{Day: mc.calendar.Today().String(), Missions: missions}
	for _, mission := range missions {
		if mission.IsRecommended {
			response.Recommended = mission
		}
	}
	return response, nil
}

func (mc *MissionController) GetRecommended(ctx context.Context, user *User) (*Mission, error) {
	mission, err := mc.missionService.GetTodayMission(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if mission == nil {
		return nil, fmt.Errorf("%w: no mission available today", services.ErrNotFound)
	}
	return mission, nil
}

func (mc *MissionController) GetHistory(ctx context.Context, user *User, rawLimit string) ([]*Mission, error) {
	limit, err := ParseLimit(rawLimit)
	if err != nil {
		return nil, err
	}
	return mc.missionService.GetMissionHistory(ctx, user.ID, limit)
}

func (mc *MissionController) Skip(ctx context.Context, user *User, rawID string) (types.MissionActionResult, error) {
	missionID, err := ParseMissionID(rawID)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	return mc.missionService.SkipMission(ctx, missionID, user.ID)
}

func (mc *MissionController) Reload(ctx context.Context, user *User, rawID string) (types.MissionActionResult, error) {
	missionID, err := ParseMissionID(rawID)
	if err != nil {
		return types.MissionActionResult{}, err
	}
	return mc.missionService.ReloadMission(ctx, missionID, user.ID)
}

func (mc *MissionController) Complete(
	ctx context.Context,
	user *User,
	rawID string,
	req CompleteRequest,
) (types.MissionActionResult, error) {
	missionID, err := ParseMissionID(rawID)
	if err != nil {
		return types.MissionActionResult{}, err
	}

	result, err := mc.missionService.CompleteMission(ctx, missionID, user.ID, req.Caption)
	if err != nil {
		return result, err
	}

	if result.Success && result.Gamification != nil && len(result.Gamification.FailedSteps) > 0 {
		mc.log.Function("Complete").Warn("Mission completed with partial gamification",
			"missionID", missionID,
			"failedSteps", result.Gamification.FailedSteps,
		)
	}
	return result, nil
}

// ParseMissionID rejects malformed ids before they reach the database.
func ParseMissionID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid mission id", services.ErrValidation)
	}
	return id, nil
}

// ParseLimit accepts an empty value (service default) or a positive integer.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", services.ErrValidation)
	}
	return limit, nil
}
