package server

import (
	"context"
	"fmt"
	"restocoach/config"
	"restocoach/internal/app"
	"restocoach/internal/handlers"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/helmet/v2"
)

const accessLogFormat = "${time} ${status} ${method} ${path} ${latency} trace=${respHeader:X-Trace-ID}\n"

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")
	log.Info("Initializing server", "environment", app.Config.Environment)

	server := fiber.New(fiberConfig(app.Config))

	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.CorsAllowOrigins,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, X-Trace-ID",
		AllowCredentials: true,
		MaxAge:           300,
		ExposeHeaders:    "X-Trace-ID, X-RateLimit-Limit, X-RateLimit-Remaining",
	}))
	server.Use(fiberLogs.New(fiberLogs.Config{Format: accessLogFormat}))
	server.Use(compress.New())
	server.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		XDNSPrefetchControl:       "off",
		XPermittedCrossDomain:     "none",
	}))

	if err := handlers.Router(server, app); err != nil {
		return nil, log.Err("failed to initialize handlers", err)
	}

	return &AppServer{FiberApp: server, log: log}, nil
}

// fiberConfig sizes the server for small JSON payloads; captions are the largest body it takes.
func fiberConfig(cfg config.Config) fiber.Config {
	timeout := time.Duration(cfg.ServerTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	bodyLimit := cfg.ServerBodyLimitKB * 1024
	if bodyLimit <= 0 {
		bodyLimit = 1024 * 1024
	}

	development := cfg.Environment == "development"

	return fiber.Config{
		ServerHeader:            fmt.Sprintf("restocoach/%s", cfg.GeneralVersion),
		AppName:                 "restocoach_server",
		BodyLimit:               bodyLimit,
		EnableTrustedProxyCheck: true,
		ReadTimeout:             timeout,
		WriteTimeout:            timeout,
		IdleTimeout:             4 * timeout,
		DisableStartupMessage:   !development,
		EnablePrintRoutes:       development,
	}
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port <= 0 {
		return log.Error("invalid port", "port", port)
	}

	log.Info("Starting server", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *AppServer) Shutdown(ctx context.Context) error {
	log := s.log.Function("Shutdown")

	log.Info("Shutting down server")
	if err := s.FiberApp.ShutdownWithContext(ctx); err != nil {
		return log.Err("failed to shut down server", err)
	}
	return nil
}
