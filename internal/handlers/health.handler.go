package handlers

import (
	"restocoach/internal/app"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports 503 with per-dependency detail when Postgres or a cache is unreachable.
func HealthHandler(router fiber.Router, app *app.App) {
	log := logger.New("healthHandler").Function("health")

	router.Get("/health", func(c *fiber.Ctx) error {
		checks := fiber.Map{}
		status, code := "ok", fiber.StatusOK

		for name, err := range app.Database.Health(c.UserContext()) {
			if err != nil {
				log.Warn("dependency unhealthy", "dependency", name, "error", err)
				checks[name] = err.Error()
				status, code = "degraded", fiber.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		return c.Status(code).JSON(fiber.Map{
			"status":  status,
			"version": app.Config.GeneralVersion,
			"service": "restocoach_api",
			"checks":  checks,
		})
	})
}
