package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shenikar/civic_alert_system/internal/config"
	"github.com/shenikar/civic_alert_system/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultMigrationsPath = "migrations"

func migrateCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&path, "path", defaultMigrationsPath, "Directory with migration files")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return runMigrations(cfg, path, logger.New(cfg.LogLevel))
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the given number of migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel)

			m, err := newMigrate(cfg, path)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("failed to roll back migrations: %w", err)
			}
			log.WithField("steps", steps).Info("Database migrations rolled back")
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func newMigrate(cfg *config.Config, path string) (*migrate.Migrate, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		return nil, fmt.Errorf("migrations require STORAGE_DRIVER=%s", config.StoragePostgres)
	}

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New("file://"+path, migrationURL)
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

func runMigrations(cfg *config.Config, path string, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	m, err := newMigrate(cfg, path)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}
