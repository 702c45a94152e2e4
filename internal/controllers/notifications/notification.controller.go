package notificationController

import (
	"context"
	"fmt"
	. "restocoach/internal/models"
	"restocoach/internal/services"
	"strconv"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type NotificationControllerInterface interface {
	List(ctx context.Context, user *User, query ListQuery) ([]*Notification, error)
	MarkRead(ctx context.Context, user *User, rawID string) error
}

type NotificationController struct {
	notificationService *services.NotificationService
	log                 logger.Logger
}

type ListQuery struct {
	Unread string `query:"unread"`
	Limit  string `query:"limit"`
}

func New(services services.Service) NotificationControllerInterface {
	return &NotificationController{
		notificationService: services.Notification,
		log:                 logger.New("notificationController"),
	}
}

func (nc *NotificationController) List(ctx context.Context, user *User, query ListQuery) ([]*Notification, error) {
	unreadOnly, limit, err := query.parse()
	if err != nil {
		return nil, err
	}
	return nc.notificationService.ListNotifications(ctx, user.ID, unreadOnly, limit)
}

func (nc *NotificationController) MarkRead(ctx context.Context, user *User, rawID string) error {
	notificationID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("%w: invalid notification id", services.ErrValidation)
	}

	updated, err := nc.notificationService.MarkRead(ctx, user.ID, notificationID)
	if err != nil {
		return err
	}
	if !updated {
		nc.log.Function("MarkRead").Debug("Notification already read or not owned",
			"userID", user.ID,
			"notificationID", notificationID,
		)
	}
	return nil
}

func (q ListQuery) parse() (bool, int, error) {
	unreadOnly := false
	if q.Unread != "" {
		parsed, err := strconv.ParseBool(q.Unread)
		if err != nil {
			return false, 0, fmt.Errorf("%w: unread must be a boolean", services.ErrValidation)
		}
		unreadOnly = parsed
	}

	limit := 0
	if q.Limit != "" {
		parsed, err := strconv.Atoi(q.Limit)
		if err != nil || parsed < 1 {
			return false, 0, fmt.Errorf("%w: limit must be a positive integer", services.ErrValidation)
		}
		limit = parsed
	}

	return unreadOnly, limit, nil
}
