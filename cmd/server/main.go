// Package main implements the entry point for the Taskwell API server,
// a task management backend with JWT authentication, categories, comments,
// attachments, and task statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/taskwell/taskwell-api/internal/config"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run loads configuration, wires the application, and either executes a
// migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", "error", err)
		}
	}()

	if migrateCmd != "" {
		return runMigrations(db, appLogger, migrateCmd)
	}

	// Migrations run on every start; goose makes re-running them a no-op.
	if err := runMigrations(db, appLogger, "up"); err != nil {
		return err
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := context.Background()
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return err
	}

	_ = os.Stdout.Sync()
	return nil
}
