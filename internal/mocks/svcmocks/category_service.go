package svcmocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockCategoryService implements service.CategoryService for handler tests.
type MockCategoryService struct {
	ListFn   func(ctx context.Context) ([]*service.CategoryWithCount, error)
	GetFn    func(ctx context.Context, id uuid.UUID) (*service.CategoryWithCount, error)
	CreateFn func(ctx context.Context, input service.CategoryInput) (*service.CategoryWithCount, error)
	UpdateFn func(ctx context.Context, id uuid.UUID, input service.CategoryInput) (*service.CategoryWithCount, error)
	DeleteFn func(ctx context.Context, id uuid.UUID) error
}

var _ service.CategoryService = (*MockCategoryService)(nil)

func (m *MockCategoryService) List(ctx context.Context) ([]*service.CategoryWithCount, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *MockCategoryService) Get(ctx context.Context, id uuid.UUID) (*service.CategoryWithCount, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, store.ErrCategoryNotFound
}

func (m *MockCategoryService) Create(ctx context.Context, input service.CategoryInput) (*service.CategoryWithCount, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input)
	}
	return nil, store.ErrCategoryNotFound
}

func (m *MockCategoryService) Update(ctx context.Context, id uuid.UUID, input service.CategoryInput) (*service.CategoryWithCount, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, input)
	}
	return nil, store.ErrCategoryNotFound
}

func (m *MockCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
