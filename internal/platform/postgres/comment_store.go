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

const commentColumns = `id, task_id, author_id, content, created_at, updated_at`

// PostgresCommentStore implements the store.CommentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a new PostgreSQL implementation of the CommentStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

// Ensure PostgresCommentStore implements store.CommentStore interface
var _ store.CommentStore = (*PostgresCommentStore)(nil)

// WithTx implements store.CommentStore.WithTx
func (s *PostgresCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &PostgresCommentStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CommentStore.Create
// Returns store.ErrInvalidEntity if the task or author does not exist.
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during create",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
		return err
	}

	query := `
		INSERT INTO comments (id, task_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		comment.ID,
		comment.TaskID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()),
			slog.String("task_id", comment.TaskID.String()))
		return MapError(err)
	}

	log.Info("comment created successfully",
		slog.String("comment_id", comment.ID.String()),
		slog.String("task_id", comment.TaskID.String()))
	return nil
}

// ListByTask implements store.CommentStore.ListByTask
// It retrieves a task's comments oldest first.
func (s *PostgresCommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to query comments",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	return collectComments(rows, log)
}

// ListByTasks implements store.CommentStore.ListByTasks
// It retrieves the comments for all given tasks in one query, grouped by
// task, each group oldest first.
func (s *PostgresCommentStore) ListByTasks(
	ctx context.Context,
	taskIDs []uuid.UUID,
) (map[uuid.UUID][]*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result := make(map[uuid.UUID][]*domain.Comment, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE task_id = ANY($1::uuid[])
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, uuidSliceParam(taskIDs))
	if err != nil {
		log.Error("failed to query comments by tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	comments, err := collectComments(rows, log)
	if err != nil {
		return nil, err
	}

	for _, comment := range comments {
		result[comment.TaskID] = append(result[comment.TaskID], comment)
	}
	return result, nil
}

// Delete implements store.CommentStore.Delete
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrCommentNotFound); err != nil {
		return err
	}

	log.Info("comment deleted successfully", slog.String("comment_id", id.String()))
	return nil
}

func collectComments(rows *sql.Rows, log *slog.Logger) ([]*domain.Comment, error) {
	comments := []*domain.Comment{}
	for rows.Next() {
		var comment domain.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.TaskID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan comment row", slog.String("error", err.Error()))
			return nil, err
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return comments, nil
}
