package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"restocoach/internal/app"
	"restocoach/internal/server"
	"syscall"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.New("main")

	if err := run(log); err != nil {
		log.Er("api stopped", err)
		os.Exit(1)
	}
	log.Info("Graceful shutdown complete")
}

// run serves until SIGINT/SIGTERM or a listener failure, then drains requests before closing
// the scheduler, event bus and database.
func run(log logger.Logger) error {
	log = log.Function("run")

	application, err := app.New()
	if err != nil {
		return log.Err("failed to create app", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	appServer, err := server.New(application)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if application.Config.SchedulerEnabled {
		if err := application.Services.Scheduler.Start(ctx); err != nil {
			return log.Err("failed to start scheduler", err)
		}
	}

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- appServer.Listen(application.Config.ServerPort)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return err
		}
		return errors.New("listener exited")
	case <-ctx.Done():
	}

	log.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return appServer.Shutdown(shutdownCtx)
}
