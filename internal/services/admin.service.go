package services

import (
	"context"
	"errors"
	"fmt"
	"restocoach/internal/constants"
	"restocoach/internal/events"
	. "restocoach/internal/models"
	"restocoach/internal/repositories"
	"slices"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AUDIT_CREATE  = "create"
	AUDIT_UPDATE  = "update"
	AUDIT_REPLACE = "replace"
	AUDIT_TRIGGER = "trigger"
)

type JobScheduler interface {
	TriggerJobByName(jobName string) error
}

// AdminService applies back-office writes. Every write and its audit entry share one transaction,
// then the gamification settings snapshot is invalidated on every instance.
type AdminService struct {
	repos       repositories.Repository
	db          *gorm.DB
	transaction *TransactionService
	settings    *SettingsService
	eventBus    *events.EventBus
	scheduler   JobScheduler
	log         logger.Logger
}

func NewAdminService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
	settings *SettingsService,
	eventBus *events.EventBus,
	scheduler JobScheduler,
) *AdminService {
	return &AdminService{
		repos:       repos,
		db:          db,
		transaction: transaction,
		settings:    settings,
		eventBus:    eventBus,
		scheduler:   scheduler,
		log:         logger.New("adminService"),
	}
}

func (s *AdminService) ListTemplates(ctx context.Context) ([]*MissionTemplate, error) {
	return s.repos.Template.List(ctx, s.db)
}

func validateTemplate(template *MissionTemplate) error {
	template.Title = strings.TrimSpace(template.Title)
	if template.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !template.Type.Valid() {
		return fmt.Errorf("%w: unknown mission type %q", ErrValidation, template.Type)
	}
	if template.NotificationTime != nil && template.ReminderHour(-1) == -1 {
		return fmt.Errorf("%w: notificationTime must be HH:MM", ErrValidation)
	}
	return nil
}

func (s *AdminService) CreateTemplate(
	ctx context.Context,
	actorID uuid.UUID,
	template *MissionTemplate,
) (*MissionTemplate, error) {
	if err := validateTemplate(template); err != nil {
		return nil, err
	}
	template.ID = uuid.Nil

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.repos.Template.Create(ctx, tx, template); err != nil {
			return err
		}
		return s.audit(ctx, tx, actorID, AUDIT_CREATE, "mission_template", template.ID.String(), map[string]any{
			"title": template.Title,
			"type":  template.Type,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Function("CreateTemplate").Info("template created", "templateID", template.ID, "actorID", actorID)
	return template, nil
}

func (s *AdminService) UpdateTemplate(
	ctx context.Context,
	actorID, templateID uuid.UUID,
	template *MissionTemplate,
) (*MissionTemplate, error) {
	if err := validateTemplate(template); err != nil {
		return nil, err
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := s.repos.Template.GetByID(ctx, tx, templateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: template %s", ErrNotFound, templateID)
			}
			return err
		}

		template.ID = existing.ID
		template.CreatedAt = existing.CreatedAt
		if err := s.repos.Template.Update(ctx, tx, template); err != nil {
			return err
		}
		return s.audit(ctx, tx, actorID, AUDIT_UPDATE, "mission_template", templateID.String(), map[string]any{
			"title":    template.Title,
			"isActive": template.IsActive,
		})
	})
	if err != nil {
		return nil, err
	}

	return template, nil
}

func (s *AdminService) ReplaceBadges(ctx context.Context, actorID uuid.UUID, badges []*Badge) error {
	slugs := make([]string, 0, len(badges))
	for _, badge := range badges {
		badge.Slug = NormalizeValue(badge.Slug)
		if badge.Slug == "" || strings.TrimSpace(badge.Name) == "" {
			return fmt.Errorf("%w: badges need a name and a slug", ErrValidation)
		}
		if !badge.CriteriaType.Valid() {
			return fmt.Errorf("%w: unknown badge criteria %q", ErrValidation, badge.CriteriaType)
		}
		if badge.CriteriaValue < 1 {
			return fmt.Errorf("%w: badge %s needs a positive criteria value", ErrValidation, badge.Slug)
		}
		if slices.Contains(slugs, badge.Slug) {
			return fmt.Errorf("%w: duplicate badge slug %s", ErrValidation, badge.Slug)
		}
		slugs = append(slugs, badge.Slug)
	}

	return s.writeSettings(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.repos.Badge.UpsertBySlug(ctx, tx, badges); err != nil {
			return err
		}
		return s.audit(ctx, tx, actorID, AUDIT_REPLACE, "badges", "", map[string]any{"slugs": slugs})
	})
}

// ValidateLevels requires level 1 at 0 XP and strictly increasing requirements with levels.
func ValidateLevels(levels []*LevelThreshold) error {
	if len(levels) == 0 {
		return fmt.Errorf("%w: at least one level is required", ErrValidation)
	}

	sorted := slices.Clone(levels)
	slices.SortFunc(sorted, func(a, b *LevelThreshold) int { return a.Level - b.Level })

	if sorted[0].Level != 1 || sorted[0].XPRequired != 0 {
		return fmt.Errorf("%w: level 1 must require 0 XP", ErrValidation)
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Level == sorted[i-1].Level {
			return fmt.Errorf("%w: duplicate level %d", ErrValidation, sorted[i].Level)
		}
		if sorted[i].XPRequired <= sorted[i-1].XPRequired {
			return fmt.Errorf("%w: level %d must require more XP than level %d",
				ErrValidation, sorted[i].Level, sorted[i-1].Level)
		}
	}
	return nil
}

func (s *AdminService) ReplaceLevels(ctx context.Context, actorID uuid.UUID, levels []*LevelThreshold) error {
	if err := ValidateLevels(levels); err != nil {
		return err
	}
	for _, level := range levels {
		level.ID = uuid.Nil
	}

	return s.writeSettings(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.repos.Settings.ReplaceLevels(ctx, tx, levels); err != nil {
			return err
		}
		return s.audit(ctx, tx, actorID, AUDIT_REPLACE, "levels", "", map[string]any{"count": len(levels)})
	})
}

func (s *AdminService) UpsertXpActions(ctx context.Context, actorID uuid.UUID, actions []*XpAction) error {
	actionTypes := make([]string, 0, len(actions))
	for _, action := range actions {
		action.ActionType = NormalizeValue(action.ActionType)
		if action.ActionType == "" {
			return fmt.Errorf("%w: actionType is required", ErrValidation)
		}
		if action.XPAmount < 0 {
			return fmt.Errorf("%w: xpAmount of %s cannot be negative", ErrValidation, action.ActionType)
		}
		actionTypes = append(actionTypes, action.ActionType)
	}

	return s.writeSettings(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.repos.Settings.UpsertXpActions(ctx, tx, actions); err != nil {
			return err
		}
		return s.audit(ctx, tx, actorID, AUDIT_UPDATE, "xp_actions", "", map[string]any{"actionTypes": actionTypes})
	})
}

func (s *AdminService) TriggerJob(ctx context.Context, actorID uuid.UUID, jobName string) error {
	if s.scheduler == nil {
		return fmt.Errorf("%w: scheduler is not available", ErrNotFound)
	}
	if err := s.scheduler.TriggerJobByName(jobName); err != nil {
		if errors.Is(err, ErrJobRunning) {
			return fmt.Errorf("%w: job %s is already running", ErrValidation, jobName)
		}
		return fmt.Errorf("%w: job %s", ErrNotFound, jobName)
	}

	return s.audit(ctx, s.db, actorID, AUDIT_TRIGGER, "job", jobName, nil)
}

func (s *AdminService) ListAuditEntries(ctx context.Context, limit int) ([]*AuditEntry, error) {
	if limit <= 0 || limit > MAX_HISTORY_LIMIT {
		limit = MAX_HISTORY_LIMIT
	}
	return s.repos.Audit.List(ctx, s.db, limit)
}

func (s *AdminService) writeSettings(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	if err := s.transaction.Execute(ctx, fn); err != nil {
		return err
	}
	s.invalidateSettings(ctx)
	return nil
}

func (s *AdminService) invalidateSettings(ctx context.Context) {
	if s.settings != nil {
		s.settings.Invalidate(ctx)
	}
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishCacheInvalidation(ctx, constants.SettingsCachePrefix, constants.SettingsCacheKey); err != nil {
		s.log.Function("invalidateSettings").Warn("failed to broadcast settings invalidation", "error", err)
	}
}

func (s *AdminService) audit(
	ctx context.Context,
	tx *gorm.DB,
	actorID uuid.UUID,
	action, resource, resourceID string,
	details map[string]any,
) error {
	return s.repos.Audit.Create(ctx, tx, &AuditEntry{
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    datatypes.JSONMap(details),
	})
}
