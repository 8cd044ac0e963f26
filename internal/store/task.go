package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/domain/taskstats"
)

// Page describes a bounded window over a task listing.
type Page struct {
	// Number is the 1-based page number. Values below 1 are treated as 1.
	Number int

	// Size is the number of tasks per page. Values below 1 fall back to the
	// implementation default.
	Size int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the assignee, creator, or category
	// reference a row that does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves the page of tasks matching the filter, newest first,
	// together with the total match count for pagination. The filter's
	// overdue criterion is evaluated against the supplied instant.
	// An empty result is valid, not an error.
	List(ctx context.Context, filter taskstats.Filter, page Page, now time.Time) ([]*domain.Task, int, error)

	// ListAll retrieves every task matching the filter, newest first,
	// without pagination. Used by the statistics aggregation.
	ListAll(ctx context.Context, filter taskstats.Filter, now time.Time) ([]*domain.Task, error)

	// Update modifies an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns ErrInvalidEntity on dangling references.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID. Comments, attachments,
	// and history rows are removed with it by the schema's cascade rules.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
