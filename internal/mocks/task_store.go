package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/domain/taskstats"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	CreateFn  func(ctx context.Context, task *domain.Task) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn    func(ctx context.Context, filter taskstats.Filter, page store.Page, now time.Time) ([]*domain.Task, int, error)
	ListAllFn func(ctx context.Context, filter taskstats.Filter, now time.Time) ([]*domain.Task, error)
	UpdateFn  func(ctx context.Context, task *domain.Task) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error

	// CreatedTasks records tasks passed to Create when no CreateFn is set.
	CreatedTasks []*domain.Task
	// UpdatedTasks records tasks passed to Update when no UpdateFn is set.
	UpdatedTasks []*domain.Task

	mu sync.Mutex
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedTasks = append(m.CreatedTasks, task)
	return nil
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskStore) List(ctx context.Context, filter taskstats.Filter, page store.Page, now time.Time) ([]*domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, page, now)
	}
	return nil, 0, nil
}

func (m *MockTaskStore) ListAll(ctx context.Context, filter taskstats.Filter, now time.Time) ([]*domain.Task, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx, filter, now)
	}
	return nil, nil
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatedTasks = append(m.UpdatedTasks, task)
	return nil
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
