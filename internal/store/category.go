package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category to the store.
	// Returns ErrCategoryNameExists if the name is already taken.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// List retrieves all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)

	// GetNames maps the given category IDs to their names. Unknown IDs are
	// simply absent from the result. Used by the statistics aggregation.
	GetNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

	// Update modifies an existing category.
	// Returns ErrCategoryNotFound if the category does not exist.
	// Returns ErrCategoryNameExists on a name conflict.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category by its ID. Tasks referencing the category
	// keep existing; the schema's ON DELETE SET NULL clears their reference.
	// Returns ErrCategoryNotFound if the category does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountTasks returns the number of tasks referencing the category.
	CountTasks(ctx context.Context, id uuid.UUID) (int, error)

	// WithTx returns a new CategoryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
