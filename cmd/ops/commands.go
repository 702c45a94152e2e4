package main

import (
	"context"
	"fmt"
	"restocoach/config"
	"restocoach/internal/database"
	"restocoach/internal/events"
	"restocoach/internal/services"
	"restocoach/internal/types"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// runtime holds what a one-shot command needs: services over a live database, no HTTP server.
type runtime struct {
	db       database.DB
	eventBus *events.EventBus
	services services.Service
}

func openRuntime() (*runtime, error) {
	log := logger.New("ops").Function("openRuntime")

	config, err := config.New()
	if err != nil {
		return nil, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return nil, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)
	appServices, err := services.New(db, config, eventBus)
	if err != nil {
		_ = db.Close()
		return nil, log.Err("failed to create services", err)
	}

	return &runtime{db: db, eventBus: eventBus, services: appServices}, nil
}

func (r *runtime) close() {
	_ = r.eventBus.Close()
	_ = r.db.Close()
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ops",
		Short:         "Operator commands for restocoach",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		batchCommand("reset-streaks", "Reset streaks whose last activity is older than yesterday",
			func(ctx context.Context, s services.Service) (types.BatchResult, error) {
				return s.Gamification.ResetLapsedStreaks(ctx)
			}),
		batchCommand("assign-missions", "Build today's missions for every active user",
			func(ctx context.Context, s services.Service) (types.BatchResult, error) {
				return s.Mission.AssignForAllUsers(ctx)
			}),
		batchCommand("send-reminders", "Send the reminders due at the current regional hour",
			func(ctx context.Context, s services.Service) (types.BatchResult, error) {
				return s.Notification.SendMissionReminders(ctx)
			}),
		issueTokenCommand(),
	)

	return root
}

func batchCommand(
	use, short string,
	run func(context.Context, services.Service) (types.BatchResult, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := run(cmd.Context(), rt.services)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "processed=%d succeeded=%d skipped=%d failed=%d\n",
				result.Processed, result.Succeeded, result.Skipped, result.Failed)
			return nil
		},
	}
}

func issueTokenCommand() *cobra.Command {
	var (
		rawUserID string
		ttl       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Issue an API token for an active user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(rawUserID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			if _, err := rt.services.User.GetActiveUser(cmd.Context(), userID); err != nil {
				return err
			}

			token, err := rt.services.Token.Issue(userID, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawUserID, "user", "", "user id the token is issued for")
	cmd.Flags().DurationVar(&ttl, "ttl", services.DEFAULT_TOKEN_TTL, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
