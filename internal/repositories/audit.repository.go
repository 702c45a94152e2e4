package repositories

import (
	"context"
	. "restocoach/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *AuditEntry) error
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*AuditEntry, error)
}

type auditRepository struct {
	log logger.Logger
}

func NewAuditRepository() AuditRepository {
	return &auditRepository{
		log: logger.New("auditRepository"),
	}
}

func (r *auditRepository) Create(ctx context.Context, tx *gorm.DB, entry *AuditEntry) error {
	log := r.log.Function("Create")

	if err := gorm.G[AuditEntry](tx).Create(ctx, entry); err != nil {
		return log.Err("failed to create audit entry", err, "action", entry.Action, "resource", entry.Resource)
	}

	return nil
}

func (r *auditRepository) List(ctx context.Context, tx *gorm.DB, limit int) ([]*AuditEntry, error) {
	log := r.log.Function("List")

	entries, err := gorm.G[*AuditEntry](tx).Order("created_at DESC").Limit(limit).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list audit entries", err)
	}

	return entries, nil
}
