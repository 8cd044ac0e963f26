package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// CategoryWithCount pairs a category with the number of tasks referencing it.
type CategoryWithCount struct {
	Category  *domain.Category
	TaskCount int
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string
	Description string
	Color       string
}

// CategoryService provides category CRUD with task counts on reads.
type CategoryService interface {
	// List retrieves all categories ordered by name, each with its task count.
	List(ctx context.Context) ([]*CategoryWithCount, error)

	// Get retrieves a single category with its task count.
	// Returns store.ErrCategoryNotFound if the category does not exist.
	Get(ctx context.Context, id uuid.UUID) (*CategoryWithCount, error)

	// Create makes a new category. An empty color takes the default.
	// Returns store.ErrCategoryNameExists on a name conflict.
	Create(ctx context.Context, input CategoryInput) (*CategoryWithCount, error)

	// Update modifies an existing category.
	// Returns store.ErrCategoryNotFound if the category does not exist.
	// Returns store.ErrCategoryNameExists on a name conflict.
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryWithCount, error)

	// Delete removes a category. Tasks referencing it are detached, not
	// deleted.
	// Returns store.ErrCategoryNotFound if the category does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryServiceImpl implements the CategoryService interface
type CategoryServiceImpl struct {
	categoryStore store.CategoryStore
	logger        *slog.Logger
}

// Ensure CategoryServiceImpl implements CategoryService interface
var _ CategoryService = (*CategoryServiceImpl)(nil)

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryStore store.CategoryStore, logger *slog.Logger) *CategoryServiceImpl {
	return &CategoryServiceImpl{
		categoryStore: categoryStore,
		logger:        logger.With("component", "category_service"),
	}
}

// List implements CategoryService.List.
func (s *CategoryServiceImpl) List(ctx context.Context) ([]*CategoryWithCount, error) {
	categories, err := s.categoryStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	result := make([]*CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		count, err := s.categoryStore.CountTasks(ctx, category.ID)
		if err != nil {
			s.logger.Error("failed to count category tasks",
				"error", err,
				"category_id", category.ID)
			return nil, fmt.Errorf("failed to count category tasks: %w", err)
		}
		result = append(result, &CategoryWithCount{Category: category, TaskCount: count})
	}

	return result, nil
}

// Get implements CategoryService.Get.
func (s *CategoryServiceImpl) Get(ctx context.Context, id uuid.UUID) (*CategoryWithCount, error) {
	category, err := s.categoryStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.categoryStore.CountTasks(ctx, id)
	if err != nil {
		s.logger.Error("failed to count category tasks",
			"error", err,
			"category_id", id)
		return nil, fmt.Errorf("failed to count category tasks: %w", err)
	}

	return &CategoryWithCount{Category: category, TaskCount: count}, nil
}

// Create implements CategoryService.Create.
func (s *CategoryServiceImpl) Create(ctx context.Context, input CategoryInput) (*CategoryWithCount, error) {
	category, err := domain.NewCategory(input.Name, input.Description, input.Color)
	if err != nil {
		return nil, err
	}

	if err := s.categoryStore.Create(ctx, category); err != nil {
		if !errors.Is(err, store.ErrCategoryNameExists) {
			s.logger.Error("failed to create category",
				"error", err,
				"name", input.Name)
		}
		return nil, err
	}

	s.logger.Info("category created",
		"category_id", category.ID,
		"name", category.Name)

	return &CategoryWithCount{Category: category, TaskCount: 0}, nil
}

// Update implements CategoryService.Update.
func (s *CategoryServiceImpl) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryWithCount, error) {
	category, err := s.categoryStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.Description = input.Description
	if input.Color != "" {
		category.Color = input.Color
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.categoryStore.Update(ctx, category); err != nil {
		if !errors.Is(err, store.ErrCategoryNameExists) && !store.IsNotFoundError(err) {
			s.logger.Error("failed to update category",
				"error", err,
				"category_id", id)
		}
		return nil, err
	}

	s.logger.Info("category updated", "category_id", id)

	return s.Get(ctx, id)
}

// Delete implements CategoryService.Delete.
func (s *CategoryServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categoryStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}
