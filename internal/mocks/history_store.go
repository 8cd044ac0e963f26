package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockTaskHistoryStore implements store.TaskHistoryStore for testing.
type MockTaskHistoryStore struct {
	CreateFn     func(ctx context.Context, history *domain.TaskHistory) error
	ListByTaskFn func(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskHistory, error)

	// CreatedRecords records history rows passed to Create when no CreateFn
	// is set, in insertion order.
	CreatedRecords []*domain.TaskHistory

	mu sync.Mutex
}

var _ store.TaskHistoryStore = (*MockTaskHistoryStore)(nil)

func (m *MockTaskHistoryStore) Create(ctx context.Context, history *domain.TaskHistory) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, history)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedRecords = append(m.CreatedRecords, history)
	return nil
}

func (m *MockTaskHistoryStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskHistory, error) {
	if m.ListByTaskFn != nil {
		return m.ListByTaskFn(ctx, taskID)
	}
	return nil, nil
}

func (m *MockTaskHistoryStore) WithTx(tx *sql.Tx) store.TaskHistoryStore {
	return m
}
