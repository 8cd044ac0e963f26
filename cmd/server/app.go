package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskwell/taskwell-api/internal/config"
	"github.com/taskwell/taskwell-api/internal/platform/files"
	"github.com/taskwell/taskwell-api/internal/platform/postgres"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	revokedTokens store.RevokedTokenStore

	jwtService      auth.JWTService
	userService     service.UserService
	taskService     service.TaskService
	categoryService service.CategoryService
}

// newApplication wires the stores and services from the given configuration
// and database handle.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	fileStore, err := files.NewDiskStore(cfg.Storage.AttachmentDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment store: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	categoryStore := postgres.NewPostgresCategoryStore(db, logger)
	commentStore := postgres.NewPostgresCommentStore(db, logger)
	attachmentStore := postgres.NewPostgresAttachmentStore(db, logger)
	historyStore := postgres.NewPostgresTaskHistoryStore(db, logger)
	revokedTokens := postgres.NewPostgresRevokedTokenStore(db, logger)

	passwords := auth.NewBcryptVerifier()

	return &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		userStore:     userStore,
		revokedTokens: revokedTokens,
		jwtService:    jwtService,
		userService:   service.NewUserService(userStore, passwords, passwords, db, logger),
		taskService: service.NewTaskService(
			taskStore,
			categoryStore,
			userStore,
			commentStore,
			attachmentStore,
			historyStore,
			fileStore,
			db,
			logger,
		),
		categoryService: service.NewCategoryService(categoryStore, logger),
	}, nil
}

// cleanup releases resources held by the application. The database handle is
// closed by the caller that opened it.
func (app *application) cleanup() {
	app.logger.Info("application cleanup complete")
}
