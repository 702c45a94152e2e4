package repositories

import (
	"context"
	. "restocoach/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *Notification) error
	ListForUser(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		unreadOnly bool,
		limit int,
	) ([]*Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, userID, notificationID uuid.UUID, at time.Time) (bool, error)
}

type notificationRepository struct {
	log logger.Logger
}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) Create(ctx context.Context, tx *gorm.DB, notification *Notification) error {
	log := r.log.Function("Create")

	if err := gorm.G[Notification](tx).Create(ctx, notification); err != nil {
		return log.Err("failed to create notification", err, "userID", notification.UserID)
	}

	return nil
}

func (r *notificationRepository) ListForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	unreadOnly bool,
	limit int,
) ([]*Notification, error) {
	log := r.log.Function("ListForUser")

	query := gorm.G[*Notification](tx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	notifications, err := query.Order("created_at DESC").Limit(limit).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list notifications", err, "userID", userID)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(
	ctx context.Context,
	tx *gorm.DB,
	userID, notificationID uuid.UUID,
	at time.Time,
) (bool, error) {
	log := r.log.Function("MarkRead")

	result := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", at)
	if result.Error != nil {
		return false, log.Err("failed to mark notification read", result.Error, "notificationID", notificationID)
	}

	return result.RowsAffected > 0, nil
}
