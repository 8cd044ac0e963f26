package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing.
type MockCategoryStore struct {
	CreateFn     func(ctx context.Context, category *domain.Category) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	ListFn       func(ctx context.Context) ([]*domain.Category, error)
	GetNamesFn   func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	UpdateFn     func(ctx context.Context, category *domain.Category) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error
	CountTasksFn func(ctx context.Context, id uuid.UUID) (int, error)
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	return nil
}

func (m *MockCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrCategoryNotFound
}

func (m *MockCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *MockCategoryStore) GetNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if m.GetNamesFn != nil {
		return m.GetNamesFn(ctx, ids)
	}
	return map[uuid.UUID]string{}, nil
}

func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}
	return nil
}

func (m *MockCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockCategoryStore) CountTasks(ctx context.Context, id uuid.UUID) (int, error) {
	if m.CountTasksFn != nil {
		return m.CountTasksFn(ctx, id)
	}
	return 0, nil
}

func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}
