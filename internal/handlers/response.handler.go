package handlers

import (
	"errors"
	"restocoach/internal/handlers/middleware"
	"restocoach/internal/services"
	"restocoach/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// respondError maps service errors to HTTP statuses. Unexpected errors are logged and hidden.
func respondError(c *fiber.Ctx, log logger.Logger, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	traceID := middleware.GetTraceID(c)
	log.Er("request failed", err, "path", c.Path(), "traceID", traceID)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal server error",
		"traceId": traceID,
	})
}

// respondAction writes a mission action outcome with a status matching its error code.
func respondAction(c *fiber.Ctx, log logger.Logger, result types.MissionActionResult, err error) error {
	if err != nil {
		return respondError(c, log, err)
	}
	if result.Success {
		return c.JSON(result)
	}

	status := fiber.StatusConflict
	switch result.ErrorCode {
	case types.MissionErrorNotFound:
		status = fiber.StatusNotFound
	case types.MissionErrorLimitReached:
		status = fiber.StatusTooManyRequests
	}
	return c.Status(status).JSON(result)
}

func requireUser(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Authentication required",
	})
}
