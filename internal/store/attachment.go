package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// AttachmentStore defines the interface for attachment metadata persistence.
// The file bytes themselves live in a files.Store; this interface only
// records what was stored where.
type AttachmentStore interface {
	// Create saves a new attachment record to the store.
	// Returns ErrInvalidEntity if the task or uploader does not exist.
	Create(ctx context.Context, attachment *domain.Attachment) error

	// GetByID retrieves an attachment by its unique ID.
	// Returns ErrAttachmentNotFound if the attachment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)

	// ListByTask retrieves all attachments on a task, newest first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Attachment, error)

	// ListByTasks retrieves attachments for many tasks at once, grouped by
	// task ID. Used to eagerly associate attachments with a task listing.
	ListByTasks(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*domain.Attachment, error)

	// Delete removes an attachment record by its ID.
	// Returns ErrAttachmentNotFound if the attachment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new AttachmentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AttachmentStore
}
