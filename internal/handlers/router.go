package handlers

import (
	"restocoach/internal/app"
	"restocoach/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())

	if app.Websocket != nil {
		WebSocketHandler(router, app)
	}

	api := router.Group("/api")
	HealthHandler(api, app)

	protected := api.Group("", app.Middleware.RequireAuth(), app.Middleware.RateLimit())
	NewMissionHandler(*app, protected).Register()
	NewGamificationHandler(*app, protected).Register()
	NewNotificationHandler(*app, protected).Register()
	NewUserHandler(*app, protected).Register()
	NewAdminHandler(*app, protected).Register()

	return nil
}
