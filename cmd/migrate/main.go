// Package main provides a CLI tool for running database migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/portfolio-report/internal/config"
	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/storage"
)

func main() {
	var (
		action = flag.String("action", "up", "Migration action: up, down, version")
		dbType = flag.String("db", "postgres", "Database type: postgres, clickhouse")
		dir    = flag.String("dir", "migrations", "Root directory holding postgres/ and clickhouse/ migrations")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.InitGlobalLogger(logging.ParseLogLevel(cfg.Logging.Level), logging.FormatText)
	ctx := logging.WithLogger(context.Background(), logger)

	switch *dbType {
	case "postgres":
		err = runPostgresMigrations(ctx, cfg, *dir+"/postgres", *action)
	case "clickhouse":
		err = runClickHouseMigrations(ctx, cfg, *dir+"/clickhouse", *action)
	default:
		err = fmt.Errorf("unknown database type: %s", *dbType)
	}
	if err != nil {
		logger.WithError(err).WithField("db", *dbType).Fatal("migration failed")
	}
}

func runPostgresMigrations(ctx context.Context, cfg *config.Config, migrationsPath, action string) error {
	logger := logging.FromContext(ctx).WithField("db", "postgres")
	databaseURL := cfg.Database.Postgres.DSN()

	switch action {
	case "up":
		if err := storage.RunMigrations(databaseURL, migrationsPath); err != nil {
			return err
		}
		logger.Info("migrations applied")

	case "down":
		if err := storage.RollbackMigrations(databaseURL, migrationsPath); err != nil {
			return err
		}
		logger.Info("last migration rolled back")

	case "version":
		version, dirty, err := storage.MigrationVersion(databaseURL, migrationsPath)
		if err != nil {
			return err
		}
		logger.WithFields(map[string]interface{}{
			"version": version,
			"dirty":   dirty,
		}).Info("current migration version")

	default:
		return fmt.Errorf("unknown action: %s", action)
	}

	return nil
}

func runClickHouseMigrations(ctx context.Context, cfg *config.Config, migrationsPath, action string) error {
	if action != "up" {
		return fmt.Errorf("ClickHouse migrations only support 'up' action")
	}

	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		return fmt.Errorf("migrations directory not found: %s", migrationsPath)
	}

	db, err := storage.NewClickHouseDB(ctx, &cfg.Database.ClickHouse)
	if err != nil {
		return fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	defer func() { _ = db.Close() }()

	return storage.RunClickHouseMigrations(ctx, db, migrationsPath)
}
