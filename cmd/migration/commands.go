package main

import (
	"database/sql"
	"fmt"
	"restocoach/cmd/migration/initialize"
	"restocoach/cmd/migration/migrations"
	"restocoach/cmd/migration/seed"
	"restocoach/config"
	"restocoach/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
)

const MIGRATION_DIALECT = "postgres"

var migrationSource = &migrate.EmbedFileSystemMigrationSource{
	FileSystem: migrations.FS,
	Root:       ".",
}

// withDatabase loads config and opens Postgres and valkey for the duration of fn.
func withDatabase(fn func(db database.DB, cfg config.Config, log logger.Logger) error) error {
	log := logger.New("migrations")

	cfg, err := config.New()
	if err != nil {
		return log.Err("failed to initialize config", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return log.Err("failed to create database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Er("failed to close database", err)
		}
	}()

	return fn(db, cfg, log)
}

func newRootCommand() *cobra.Command {
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply SQL migrations, sync the schema and install default gamification rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(migrateUp)
		},
	}

	root := &cobra.Command{
		Use:           "migration",
		Short:         "Schema and seed management for restocoach",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          up.RunE,
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return withDatabase(func(_ database.DB, cfg config.Config, log logger.Logger) error {
				_, err := runMigrations(cfg, log, migrate.Down, steps)
				return err
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Flush caches, migrate up and load the demo catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(migrateSeed)
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "List embedded migrations and whether each is applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(_ database.DB, cfg config.Config, log logger.Logger) error {
				return printStatus(cmd, cfg, log)
			})
		},
	}

	root.AddCommand(up, down, seedCmd, status)
	return root
}

// migrateUp runs the SQL migrations before AutoMigrate so duplicate missions are gone
// by the time the unique index is declared.
func migrateUp(db database.DB, cfg config.Config, log logger.Logger) error {
	log = log.Function("migrateUp")

	if _, err := runMigrations(cfg, log, migrate.Up, 0); err != nil {
		return err
	}
	if err := database.AutoMigrate(db.SQL); err != nil {
		return log.Err("failed to auto migrate", err)
	}
	if err := db.CreateIndexes(); err != nil {
		return log.Err("failed to create indexes", err)
	}
	if err := initialize.InitializeTables(db.SQL, cfg, log); err != nil {
		return log.Err("failed to initialize tables", err)
	}

	log.Info("schema up to date")
	return nil
}

func migrateSeed(db database.DB, cfg config.Config, log logger.Logger) error {
	log = log.Function("migrateSeed")

	if err := db.FlushAllCaches(); err != nil {
		return log.Err("failed to flush cache databases", err)
	}
	if err := migrateUp(db, cfg, log); err != nil {
		return err
	}
	if err := seed.Seed(db.SQL, cfg, log); err != nil {
		return log.Err("failed to seed database", err)
	}

	log.Info("seed complete")
	return nil
}

func openMigrationDB(cfg config.Config) (*sql.DB, error) {
	return sql.Open(MIGRATION_DIALECT, database.DSN(cfg))
}

func runMigrations(
	cfg config.Config,
	log logger.Logger,
	direction migrate.MigrationDirection,
	max int,
) (int, error) {
	log = log.Function("runMigrations")

	db, err := openMigrationDB(cfg)
	if err != nil {
		return 0, log.Err("failed to open database for migrations", err)
	}
	defer db.Close()

	n, err := migrate.ExecMax(db, MIGRATION_DIALECT, migrationSource, direction, max)
	if err != nil {
		return 0, log.Err("failed to run migrations", err, "direction", direction)
	}

	log.Info("migrations applied", "count", n, "direction", direction)
	return n, nil
}

func printStatus(cmd *cobra.Command, cfg config.Config, log logger.Logger) error {
	log = log.Function("printStatus")

	db, err := openMigrationDB(cfg)
	if err != nil {
		return log.Err("failed to open database for migrations", err)
	}
	defer db.Close()

	available, err := migrationSource.FindMigrations()
	if err != nil {
		return log.Err("failed to read embedded migrations", err)
	}

	records, err := migrate.GetMigrationRecords(db, MIGRATION_DIALECT)
	if err != nil {
		return log.Err("failed to read applied migrations", err)
	}

	for _, line := range statusLines(available, records) {
		cmd.Println(line)
	}
	return nil
}

func statusLines(available []*migrate.Migration, records []*migrate.MigrationRecord) []string {
	applied := make(map[string]string, len(records))
	for _, record := range records {
		applied[record.Id] = record.AppliedAt.Format("2006-01-02 15:04:05")
	}

	lines := make([]string, 0, len(available))
	for _, migration := range available {
		state := "pending"
		if at, ok := applied[migration.Id]; ok {
			state = "applied " + at
		}
		lines = append(lines, fmt.Sprintf("%-48s %s", migration.Id, state))
	}
	return lines
}
