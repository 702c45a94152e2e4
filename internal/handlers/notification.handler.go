package handlers

import (
	"restocoach/internal/app"
	notificationController "restocoach/internal/controllers/notifications"
	"restocoach/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Handler
	notificationController notificationController.NotificationControllerInterface
}

func NewNotificationHandler(app app.App, router fiber.Router) *NotificationHandler {
	return &NotificationHandler{
		notificationController: app.Controllers.Notification,
		Handler: Handler{
			log:        logger.New("notificationHandler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *NotificationHandler) Register() {
	notifications := h.router.Group("/notifications")
	notifications.Get("", h.list)
	notifications.Post("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	log := h.log.Function("list")

	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	var query notificationController.ListQuery
	if err := c.QueryParser(&query); err != nil {
		log.Warn("Invalid query", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid query"})
	}

	notifications, err := h.notificationController.List(c.UserContext(), user, query)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	if err := h.notificationController.MarkRead(c.UserContext(), user, c.Params("id")); err != nil {
		return respondError(c, h.log.Function("markRead"), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
