package handlers

import (
	"restocoach/internal/app"
	missionController "restocoach/internal/controllers/missions"
	"restocoach/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type MissionHandler struct {
	Handler
	missionController missionController.MissionControllerInterface
}

func NewMissionHandler(app app.App, router fiber.Router) *MissionHandler {
	return &MissionHandler{
		missionController: app.Controllers.Mission,
		Handler: Handler{
			log:        logger.New("missionHandler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MissionHandler) Register() {
	missions := h.router.Group("/missions")
	missions.Get("/today", h.getToday)
	missions.Get("/today/recommended", h.getRecommended)
	missions.Get("/history", h.getHistory)
	missions.Post("/:id/skip", h.skip)
	missions.Post("/:id/reload", h.reload)
	missions.Post("/:id/complete", h.complete)
}

func (h *MissionHandler) getToday(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	response, err := h.missionController.GetToday(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.log.Function("getToday"), err)
	}
	return c.JSON(response)
}

func (h *MissionHandler) getRecommended(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	mission, err := h.missionController.GetRecommended(c.UserContext(), user)
	if err != nil {
		return respondError(c, h.log.Function("getRecommended"), err)
	}
	return c.JSON(fiber.Map{"mission": mission})
}

func (h *MissionHandler) getHistory(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	missions, err := h.missionController.GetHistory(c.UserContext(), user, c.Query("limit"))
	if err != nil {
		return respondError(c, h.log.Function("getHistory"), err)
	}
	return c.JSON(fiber.Map{"missions": missions})
}

func (h *MissionHandler) skip(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	result, err := h.missionController.Skip(c.UserContext(), user, c.Params("id"))
	return respondAction(c, h.log.Function("skip"), result, err)
}

func (h *MissionHandler) reload(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	result, err := h.missionController.Reload(c.UserContext(), user, c.Params("id"))
	return respondAction(c, h.log.Function("reload"), result, err)
}

func (h *MissionHandler) complete(c *fiber.Ctx) error {
	log := h.log.Function("complete")

	user := middleware.GetUser(c)
	if user == nil {
		return requireUser(c)
	}

	var req missionController.CompleteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			log.Warn("Invalid request body", "error", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	result, err := h.missionController.Complete(c.UserContext(), user, c.Params("id"), req)
	return respondAction(c, log, result, err)
}
