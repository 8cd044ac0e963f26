package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

const attachmentColumns = `id, task_id, uploaded_by, file_path, filename, file_size, uploaded_at`

// PostgresAttachmentStore implements the store.AttachmentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttachmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttachmentStore creates a new PostgreSQL implementation of the AttachmentStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAttachmentStore(db store.DBTX, logger *slog.Logger) *PostgresAttachmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttachmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "attachment_store")),
	}
}

// Ensure PostgresAttachmentStore implements store.AttachmentStore interface
var _ store.AttachmentStore = (*PostgresAttachmentStore)(nil)

// WithTx implements store.AttachmentStore.WithTx
func (s *PostgresAttachmentStore) WithTx(tx *sql.Tx) store.AttachmentStore {
	return &PostgresAttachmentStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.AttachmentStore.Create
// Returns store.ErrInvalidEntity if the task or uploader does not exist.
func (s *PostgresAttachmentStore) Create(ctx context.Context, attachment *domain.Attachment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attachment.Validate(); err != nil {
		log.Warn("attachment validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attachment_id", attachment.ID.String()))
		return err
	}

	query := `
		INSERT INTO attachments (id, task_id, uploaded_by, file_path, filename, file_size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		attachment.ID,
		attachment.TaskID,
		attachment.UploadedBy,
		attachment.FilePath,
		attachment.Filename,
		attachment.FileSize,
		attachment.UploadedAt,
	)

	if err != nil {
		log.Error("failed to create attachment",
			slog.String("error", err.Error()),
			slog.String("attachment_id", attachment.ID.String()),
			slog.String("task_id", attachment.TaskID.String()))
		return MapError(err)
	}

	log.Info("attachment created successfully",
		slog.String("attachment_id", attachment.ID.String()),
		slog.String("task_id", attachment.TaskID.String()),
		slog.Int64("file_size", attachment.FileSize))
	return nil
}

// GetByID implements store.AttachmentStore.GetByID
// Returns store.ErrAttachmentNotFound if the attachment does not exist.
func (s *PostgresAttachmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE id = $1
	`

	var attachment domain.Attachment
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&attachment.ID,
		&attachment.TaskID,
		&attachment.UploadedBy,
		&attachment.FilePath,
		&attachment.Filename,
		&attachment.FileSize,
		&attachment.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("attachment not found", slog.String("attachment_id", id.String()))
			return nil, store.ErrAttachmentNotFound
		}
		log.Error("failed to get attachment by ID",
			slog.String("error", err.Error()),
			slog.String("attachment_id", id.String()))
		return nil, err
	}

	return &attachment, nil
}

// ListByTask implements store.AttachmentStore.ListByTask
// It retrieves a task's attachments oldest first.
func (s *PostgresAttachmentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Attachment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE task_id = $1
		ORDER BY uploaded_at
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to query attachments",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	return collectAttachments(rows, log)
}

// ListByTasks implements store.AttachmentStore.ListByTasks
// It retrieves the attachments for all given tasks in one query, grouped by
// task, each group oldest first.
func (s *PostgresAttachmentStore) ListByTasks(
	ctx context.Context,
	taskIDs []uuid.UUID,
) (map[uuid.UUID][]*domain.Attachment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result := make(map[uuid.UUID][]*domain.Attachment, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE task_id = ANY($1::uuid[])
		ORDER BY uploaded_at
	`

	rows, err := s.db.QueryContext(ctx, query, uuidSliceParam(taskIDs))
	if err != nil {
		log.Error("failed to query attachments by tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	attachments, err := collectAttachments(rows, log)
	if err != nil {
		return nil, err
	}

	for _, attachment := range attachments {
		result[attachment.TaskID] = append(result[attachment.TaskID], attachment)
	}
	return result, nil
}

// Delete implements store.AttachmentStore.Delete
// Returns store.ErrAttachmentNotFound if the attachment does not exist.
func (s *PostgresAttachmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete attachment",
			slog.String("error", err.Error()),
			slog.String("attachment_id", id.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrAttachmentNotFound); err != nil {
		return err
	}

	log.Info("attachment deleted successfully", slog.String("attachment_id", id.String()))
	return nil
}

func collectAttachments(rows *sql.Rows, log *slog.Logger) ([]*domain.Attachment, error) {
	attachments := []*domain.Attachment{}
	for rows.Next() {
		var attachment domain.Attachment
		err := rows.Scan(
			&attachment.ID,
			&attachment.TaskID,
			&attachment.UploadedBy,
			&attachment.FilePath,
			&attachment.Filename,
			&attachment.FileSize,
			&attachment.UploadedAt,
		)
		if err != nil {
			log.Error("failed to scan attachment row", slog.String("error", err.Error()))
			return nil, err
		}
		attachments = append(attachments, &attachment)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return attachments, nil
}
