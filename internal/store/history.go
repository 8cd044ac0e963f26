package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// TaskHistoryStore defines the interface for the append-only task audit
// table. Records are only ever inserted and read, never updated.
type TaskHistoryStore interface {
	// Create appends one field-change record.
	// Returns ErrInvalidEntity if the task or actor does not exist.
	Create(ctx context.Context, history *domain.TaskHistory) error

	// ListByTask retrieves the change records for a task, newest first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskHistory, error)

	// WithTx returns a new TaskHistoryStore instance that uses the provided
	// transaction, so history rows land atomically with the task write that
	// produced them.
	WithTx(tx *sql.Tx) TaskHistoryStore
}
