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

var categoryUniqueConstraints = map[string]error{
	"categories_name_key": store.ErrCategoryNameExists,
}

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the CategoryStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCategoryStore(db store.DBTX, logger *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// WithTx implements store.CategoryStore.WithTx
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CategoryStore.Create
// Returns store.ErrCategoryNameExists if the name is already taken.
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during create",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	query := `
		INSERT INTO categories (id, name, description, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		category.Description,
		category.Color,
		category.CreatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate category name",
				slog.String("name", category.Name))
			return uniqueConstraintError(err, categoryUniqueConstraints)
		}
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return MapError(err)
	}

	log.Info("category created successfully",
		slog.String("category_id", category.ID.String()),
		slog.String("name", category.Name))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, color, created_at
		FROM categories
		WHERE id = $1
	`

	var category domain.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.Color,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("category not found", slog.String("category_id", id.String()))
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category by ID",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return nil, err
	}

	return &category, nil
}

// List implements store.CategoryStore.List
// It retrieves all categories ordered by name.
func (s *PostgresCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, color, created_at
		FROM categories
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query categories", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	categories := []*domain.Category{}
	for rows.Next() {
		var category domain.Category
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.Color,
			&category.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan category row", slog.String("error", err.Error()))
			return nil, err
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return categories, nil
}

// GetNames implements store.CategoryStore.GetNames
// Unknown IDs are simply absent from the result map.
func (s *PostgresCategoryStore) GetNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query := `
		SELECT id, name
		FROM categories
		WHERE id = ANY($1::uuid[])
	`

	rows, err := s.db.QueryContext(ctx, query, uuidSliceParam(ids))
	if err != nil {
		log.Error("failed to query category names", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			log.Error("failed to scan category name row", slog.String("error", err.Error()))
			return nil, err
		}
		names[id] = name
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return names, nil
}

// Update implements store.CategoryStore.Update
// Returns store.ErrCategoryNotFound if the category does not exist.
// Returns store.ErrCategoryNameExists on a name conflict.
func (s *PostgresCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during update",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	query := `
		UPDATE categories
		SET name = $1, description = $2, color = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		category.Name,
		category.Description,
		category.Color,
		category.ID,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return uniqueConstraintError(err, categoryUniqueConstraints)
		}
		log.Error("failed to update category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrCategoryNotFound); err != nil {
		return err
	}

	log.Info("category updated successfully", slog.String("category_id", category.ID.String()))
	return nil
}

// Delete implements store.CategoryStore.Delete
// Tasks referencing the category keep existing; the schema's
// ON DELETE SET NULL clears their reference.
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrCategoryNotFound); err != nil {
		return err
	}

	log.Info("category deleted successfully", slog.String("category_id", id.String()))
	return nil
}

// CountTasks implements store.CategoryStore.CountTasks
func (s *PostgresCategoryStore) CountTasks(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM tasks WHERE category_id = $1`,
		id,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
