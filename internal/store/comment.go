package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// CommentStore defines the interface for comment data persistence.
type CommentStore interface {
	// Create saves a new comment to the store.
	// Returns ErrInvalidEntity if the task or author does not exist.
	Create(ctx context.Context, comment *domain.Comment) error

	// ListByTask retrieves all comments on a task, newest first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)

	// ListByTasks retrieves comments for many tasks at once, grouped by task
	// ID, newest first within each group. Used to eagerly associate comments
	// with a task listing.
	ListByTasks(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*domain.Comment, error)

	// Delete removes a comment by its ID.
	// Returns ErrCommentNotFound if the comment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CommentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CommentStore
}
