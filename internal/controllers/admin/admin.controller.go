package adminController

import (
	"context"
	"fmt"
	. "restocoach/internal/models"
	"restocoach/internal/services"
	"strconv"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type AdminControllerInterface interface {
	ListTemplates(ctx context.Context) ([]*MissionTemplate, error)
	CreateTemplate(ctx context.Context, actor *User, req TemplateRequest) (*MissionTemplate, error)
	UpdateTemplate(ctx context.Context, actor *User, rawID string, req TemplateRequest) (*MissionTemplate, error)
	ReplaceBadges(ctx context.Context, actor *User, badges []*Badge) error
	ReplaceLevels(ctx context.Context, actor *User, levels []*LevelThreshold) error
	UpsertXpActions(ctx context.Context, actor *User, actions []*XpAction) error
	GetJobStatus() JobStatusResponse
	TriggerJob(ctx context.Context, actor *User, jobName string) error
	ListAuditEntries(ctx context.Context, rawLimit string) ([]*AuditEntry, error)
}

type AdminController struct {
	adminService     *services.AdminService
	schedulerService *services.SchedulerService
	log              logger.Logger
}

type TemplateRequest struct {
	StrategyID       *uuid.UUID  `json:"strategyId"`
	Type             MissionType `json:"type"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	ContentIdea      string      `json:"contentIdea"`
	CategoryID       *uuid.UUID  `json:"categoryId"`
	TutorialID       *uuid.UUID  `json:"tutorialId"`
	NotificationTime *string     `json:"notificationTime"`
	IsActive         *bool       `json:"isActive"`
	SortOrder        int         `json:"sortOrder"`
}

// toModel builds a template from the request. Templates are active unless stated otherwise.
func (r TemplateRequest) toModel() *MissionTemplate {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return &MissionTemplate{
		StrategyID:       r.StrategyID,
		Type:             r.Type,
		Title:            r.Title,
		Description:      r.Description,
		DefaultIdea:      r.ContentIdea,
		CategoryID:       r.CategoryID,
		TutorialID:       r.TutorialID,
		NotificationTime: r.NotificationTime,
		IsActive:         isActive,
		SortOrder:        r.SortOrder,
	}
}

type JobStatusResponse struct {
	Running bool                 `json:"running"`
	Jobs    []services.JobStatus `json:"jobs"`
	NextRun *time.Time           `json:"nextRun,omitempty"`
}

func New(services services.Service) AdminControllerInterface {
	return &AdminController{
		adminService:     services.Admin,
		schedulerService: services.Scheduler,
		log:              logger.New("adminController"),
	}
}

func (ac *AdminController) ListTemplates(ctx context.Context) ([]*MissionTemplate, error) {
	return ac.adminService.ListTemplates(ctx)
}

func (ac *AdminController) CreateTemplate(
	ctx context.Context,
	actor *User,
	req TemplateRequest,
) (*MissionTemplate, error) {
	return ac.adminService.CreateTemplate(ctx, actor.ID, req.toModel())
}

func (ac *AdminController) UpdateTemplate(
	ctx context.Context,
	actor *User,
	rawID string,
	req TemplateRequest,
) (*MissionTemplate, error) {
	templateID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid template id", services.ErrValidation)
	}

	return ac.adminService.UpdateTemplate(ctx, actor.ID, templateID, req.toModel())
}

func (ac *AdminController) ReplaceBadges(ctx context.Context, actor *User, badges []*Badge) error {
	return ac.adminService.ReplaceBadges(ctx, actor.ID, badges)
}

func (ac *AdminController) ReplaceLevels(ctx context.Context, actor *User, levels []*LevelThreshold) error {
	return ac.adminService.ReplaceLevels(ctx, actor.ID, levels)
}

func (ac *AdminController) UpsertXpActions(ctx context.Context, actor *User, actions []*XpAction) error {
	return ac.adminService.UpsertXpActions(ctx, actor.ID, actions)
}

func (ac *AdminController) GetJobStatus() JobStatusResponse {
	if ac.schedulerService == nil {
		return JobStatusResponse{Jobs: []services.JobStatus{}}
	}

	return JobStatusResponse{
		Running: ac.schedulerService.IsRunning(),
		Jobs:    ac.schedulerService.Statuses(),
		NextRun: ac.schedulerService.GetNextRunTime(),
	}
}

func (ac *AdminController) TriggerJob(ctx context.Context, actor *User, jobName string) error {
	if err := ac.adminService.TriggerJob(ctx, actor.ID, jobName); err != nil {
		return err
	}

	ac.log.Function("TriggerJob").Info("Job triggered manually", "jobName", jobName, "actorID", actor.ID)
	return nil
}

func (ac *AdminController) ListAuditEntries(ctx context.Context, rawLimit string) ([]*AuditEntry, error) {
	limit := 0
	if rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("%w: limit must be a positive integer", services.ErrValidation)
		}
		limit = parsed
	}
	return ac.adminService.ListAuditEntries(ctx, limit)
}
