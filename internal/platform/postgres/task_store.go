package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/domain/taskstats"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

const taskColumns = `id, title, description, category_id, assigned_to, created_by,
		priority, status, due_date, estimated_hours, actual_hours,
		created_at, updated_at, completed_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if a referenced user or category does not
// exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, category_id, assigned_to, created_by,
			priority, status, due_date, estimated_hours, actual_hours,
			created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.CategoryID,
		task.AssignedTo,
		task.CreatedBy,
		task.Priority,
		task.Status,
		task.DueDate,
		task.EstimatedHours,
		task.ActualHours,
		task.CreatedAt,
		task.UpdatedAt,
		task.CompletedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return MapError(err)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	return task, nil
}

// List implements store.TaskStore.List
// It retrieves the requested page of tasks matching the filter, newest
// first, plus the total match count.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	filter taskstats.Filter,
	page store.Page,
	now time.Time,
) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskFilter(filter, now)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, 0, err
	}

	if page.Size <= 0 {
		page.Size = 10
	}
	if page.Number <= 0 {
		page.Number = 1
	}
	offset := (page.Number - 1) * page.Size

	query := fmt.Sprintf(
		`SELECT %s FROM tasks%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		taskColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, page.Size, offset)

	tasks, err := s.queryTasks(ctx, log, query, args)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListAll implements store.TaskStore.ListAll
// It retrieves every task matching the filter, newest first. The statistics
// aggregation uses this to work over the full match set.
func (s *PostgresTaskStore) ListAll(
	ctx context.Context,
	filter taskstats.Filter,
	now time.Time,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskFilter(filter, now)
	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY created_at DESC`

	return s.queryTasks(ctx, log, query, args)
}

// Update implements store.TaskStore.Update
// Returns store.ErrTaskNotFound if the task does not exist.
// Returns store.ErrInvalidEntity if a referenced user or category does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, category_id = $3, assigned_to = $4,
			priority = $5, status = $6, due_date = $7, estimated_hours = $8,
			actual_hours = $9, updated_at = $10, completed_at = $11
		WHERE id = $12
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.CategoryID,
		task.AssignedTo,
		task.Priority,
		task.Status,
		task.DueDate,
		task.EstimatedHours,
		task.ActualHours,
		task.UpdatedAt,
		task.CompletedAt,
		task.ID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// Comments, attachments, and history rows cascade with the task.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	log *slog.Logger,
	query string,
	args []any,
) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return tasks, nil
}

// buildTaskFilter renders the filter as a WHERE clause. The conditions must
// agree with taskstats.Filter.Matches so SQL and in-memory filtering cannot
// diverge.
func buildTaskFilter(filter taskstats.Filter, now time.Time) (string, []any) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(filter.Status))
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = "+arg(filter.Priority))
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "category_id = "+arg(*filter.CategoryID))
	}
	if filter.AssignedTo != nil {
		conditions = append(conditions, "assigned_to = "+arg(*filter.AssignedTo))
	}
	if filter.Search != "" {
		pattern := "%" + escapeLikePattern(filter.Search) + "%"
		p := arg(pattern)
		conditions = append(conditions,
			"(title ILIKE "+p+" OR description ILIKE "+p+")")
	}
	if filter.Overdue {
		conditions = append(conditions,
			"due_date IS NOT NULL AND due_date < "+arg(now)+
				" AND status IN ('pending', 'in_progress')")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// escapeLikePattern escapes the LIKE metacharacters so a search term is
// matched literally.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var categoryID uuid.NullUUID
	var dueDate, completedAt sql.NullTime
	var estimatedHours, actualHours sql.NullInt64

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&categoryID,
		&task.AssignedTo,
		&task.CreatedBy,
		&task.Priority,
		&task.Status,
		&dueDate,
		&estimatedHours,
		&actualHours,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		id := categoryID.UUID
		task.CategoryID = &id
	}
	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}
	if estimatedHours.Valid {
		n := int(estimatedHours.Int64)
		task.EstimatedHours = &n
	}
	if actualHours.Valid {
		n := int(actualHours.Int64)
		task.ActualHours = &n
	}

	return &task, nil
}
