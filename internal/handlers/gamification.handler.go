package handlers

import (
	"restocoach/internal/app"
	gamificationController "restocoach/internal/controllers/gamification"
	"restocoach/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type GamificationHandler struct {
	Handler
	gamificationController gamificationController.GamificationControllerInterface
}

func NewGamificationHandler(app app.App, router fiber.Router) *GamificationHandler {
	return &GamificationHandler{
		gamificationController: app.Controllers.Gamification,
		Handler: Handler{
			log:        logger.New("gamificationHandler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *GamificationHandler) Register() {
	gamification := h.router.Group("/gamification")
	gamification.Get("/streak", h.getStreak)
	gamification.Get("/level", h.getLevel)
	gamification.Get("/badges", h.getBadges)

	h.router.Post("/tutorials/:id/view", h.recordTutorialView)
}

func (h *GamificationHandler) getStreak(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	response, err := h.gamificationController.GetStreak(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.log.Function("getStreak"), err)
	}
	return c.JSON(response)
}

func (h *GamificationHandler) getLevel(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	progress, err := h.gamificationController.GetLevel(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.log.Function("getLevel"), err)
	}
	return c.JSON(progress)
}

func (h *GamificationHandler) getBadges(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	badges, err := h.gamificationController.GetBadges(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.log.Function("getBadges"), err)
	}
	return c.JSON(fiber.Map{"badges": badges})
}

func (h *GamificationHandler) recordTutorialView(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	result, err := h.gamificationController.RecordTutorialView(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return respondError(c, h.log.Function("recordTutorialView"), err)
	}
	return c.JSON(result)
}
