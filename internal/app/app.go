package app

import (
	"context"
	"restocoach/config"
	"restocoach/internal/controllers"
	"restocoach/internal/database"
	"restocoach/internal/events"
	"restocoach/internal/handlers/middleware"
	"restocoach/internal/jobs"
	"restocoach/internal/services"
	"restocoach/internal/websockets"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

const JOB_DRAIN_TIMEOUT = 15 * time.Second

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)

	app, err := NewWithDependencies(config, db, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to assemble app", err)
	}

	if err := jobs.RegisterAllJobs(app.Services.Scheduler, config, app.Services); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	return app, nil
}

// NewWithDependencies wires services, controllers and the websocket hub on top of an open
// database and event bus. Jobs are not registered.
func NewWithDependencies(config config.Config, db database.DB, eventBus *events.EventBus) (*App, error) {
	log := logger.New("app").Function("NewWithDependencies")

	appServices, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		EventBus:    eventBus,
		Services:    appServices,
		Middleware:  middleware.New(appServices),
		Controllers: controllers.New(appServices),
		Websocket:   websockets.New(eventBus, appServices.Token, appServices.User),
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Mission,
		a.Services.Gamification,
		a.Services.Notification,
		a.Services.Token,
		a.Controllers.Mission,
		a.Controllers.Admin,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

// Close drains running jobs for up to JOB_DRAIN_TIMEOUT, then releases the event bus and database.
func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		ctx, cancel := context.WithTimeout(context.Background(), JOB_DRAIN_TIMEOUT)
		defer cancel()
		if closeErr := a.Services.Scheduler.Stop(ctx); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
