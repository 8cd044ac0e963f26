package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

// PostgresTaskHistoryStore implements the store.TaskHistoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskHistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskHistoryStore creates a new PostgreSQL implementation of the TaskHistoryStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskHistoryStore(db store.DBTX, logger *slog.Logger) *PostgresTaskHistoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskHistoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_history_store")),
	}
}

// Ensure PostgresTaskHistoryStore implements store.TaskHistoryStore interface
var _ store.TaskHistoryStore = (*PostgresTaskHistoryStore)(nil)

// WithTx implements store.TaskHistoryStore.WithTx
func (s *PostgresTaskHistoryStore) WithTx(tx *sql.Tx) store.TaskHistoryStore {
	return &PostgresTaskHistoryStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskHistoryStore.Create
// Returns store.ErrInvalidEntity if the task or user does not exist.
func (s *PostgresTaskHistoryStore) Create(ctx context.Context, history *domain.TaskHistory) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := history.Validate(); err != nil {
		log.Warn("task history validation failed during create",
			slog.String("error", err.Error()),
			slog.String("history_id", history.ID.String()))
		return err
	}

	query := `
		INSERT INTO task_history (id, task_id, changed_by, field_name, old_value, new_value, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		history.ID,
		history.TaskID,
		history.ChangedBy,
		history.FieldName,
		history.OldValue,
		history.NewValue,
		history.ChangedAt,
	)

	if err != nil {
		log.Error("failed to create task history record",
			slog.String("error", err.Error()),
			slog.String("history_id", history.ID.String()),
			slog.String("task_id", history.TaskID.String()))
		return MapError(err)
	}

	log.Debug("task history record created",
		slog.String("history_id", history.ID.String()),
		slog.String("task_id", history.TaskID.String()),
		slog.String("field_name", history.FieldName))
	return nil
}

// ListByTask implements store.TaskHistoryStore.ListByTask
// It retrieves a task's audit records newest first.
func (s *PostgresTaskHistoryStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskHistory, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, changed_by, field_name, old_value, new_value, changed_at
		FROM task_history
		WHERE task_id = $1
		ORDER BY changed_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to query task history",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	records := []*domain.TaskHistory{}
	for rows.Next() {
		var record domain.TaskHistory
		err := rows.Scan(
			&record.ID,
			&record.TaskID,
			&record.ChangedBy,
			&record.FieldName,
			&record.OldValue,
			&record.NewValue,
			&record.ChangedAt,
		)
		if err != nil {
			log.Error("failed to scan task history row", slog.String("error", err.Error()))
			return nil, err
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return records, nil
}
