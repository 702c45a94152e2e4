package handlers

import (
	"restocoach/internal/app"
	adminController "restocoach/internal/controllers/admin"
	"restocoach/internal/handlers/middleware"
	. "restocoach/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler: Handler{
			log:        logger.New("adminHandler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAdmin())

	admin.Get("/templates", h.listTemplates)
	admin.Post("/templates", h.createTemplate)
	admin.Put("/templates/:id", h.updateTemplate)

	admin.Put("/badges", h.replaceBadges)
	admin.Put("/levels", h.replaceLevels)
	admin.Put("/xp-actions", h.upsertXpActions)

	admin.Get("/jobs", h.getJobStatus)
	admin.Post("/jobs/:name/run", h.triggerJob)

	admin.Get("/audit", h.listAuditEntries)
}

func (h *AdminHandler) listTemplates(c *fiber.Ctx) error {
	templates, err := h.adminController.ListTemplates(c.UserContext())
	if err != nil {
		return respondError(c, h.log.Function("listTemplates"), err)
	}
	return c.JSON(fiber.Map{"templates": templates})
}

func (h *AdminHandler) createTemplate(c *fiber.Ctx) error {
	log := h.log.Function("createTemplate")

	var req adminController.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	template, err := h.adminController.CreateTemplate(c.UserContext(), middleware.GetUser(c), req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template": template})
}

func (h *AdminHandler) updateTemplate(c *fiber.Ctx) error {
	log := h.log.Function("updateTemplate")

	var req adminController.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	template, err := h.adminController.UpdateTemplate(c.UserContext(), middleware.GetUser(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, log, err)
	}
	return c.JSON(fiber.Map{"template": template})
}

func (h *AdminHandler) replaceBadges(c *fiber.Ctx) error {
	log := h.log.Function("replaceBadges")

	var badges []*Badge
	if err := c.BodyParser(&badges); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.adminController.ReplaceBadges(c.UserContext(), middleware.GetUser(c), badges); err != nil {
		return respondError(c, log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) replaceLevels(c *fiber.Ctx) error {
	log := h.log.Function("replaceLevels")

	var levels []*LevelThreshold
	if err := c.BodyParser(&levels); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.adminController.ReplaceLevels(c.UserContext(), middleware.GetUser(c), levels); err != nil {
		return respondError(c, log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) upsertXpActions(c *fiber.Ctx) error {
	log := h.log.Function("upsertXpActions")

	var actions []*XpAction
	if err := c.BodyParser(&actions); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.adminController.UpsertXpActions(c.UserContext(), middleware.GetUser(c), actions); err != nil {
		return respondError(c, log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) getJobStatus(c *fiber.Ctx) error {
	return c.JSON(h.adminController.GetJobStatus())
}

func (h *AdminHandler) triggerJob(c *fiber.Ctx) error {
	if err := h.adminController.TriggerJob(c.UserContext(), middleware.GetUser(c), c.Params("name")); err != nil {
		return respondError(c, h.log.Function("triggerJob"), err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job": c.Params("name"), "status": "triggered"})
}

func (h *AdminHandler) listAuditEntries(c *fiber.Ctx) error {
	entries, err := h.adminController.ListAuditEntries(c.UserContext(), c.Query("limit"))
	if err != nil {
		return respondError(c, h.log.Function("listAuditEntries"), err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}
