package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user must already carry a hashed password.
	// Returns ErrEmailExists if the email is already taken and
	// ErrUsernameExists if the username is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all users ordered by username, for populating
	// assignment UIs.
	List(ctx context.Context) ([]*domain.User, error)

	// GetByIDs retrieves many users at once, keyed by ID. Unknown IDs are
	// simply absent from the result. Used to join assignees, creators, and
	// authors onto task listings in one query.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error)

	// Update modifies an existing user's details. The caller MUST provide a
	// complete user object including HashedPassword.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists or ErrUsernameExists on uniqueness conflicts.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountTasksAssigned returns the number of tasks assigned to the user.
	CountTasksAssigned(ctx context.Context, id uuid.UUID) (int, error)

	// CountTasksCreated returns the number of tasks created by the user.
	CountTasksCreated(ctx context.Context, id uuid.UUID) (int, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
