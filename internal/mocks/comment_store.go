package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockCommentStore implements store.CommentStore for testing.
type MockCommentStore struct {
	CreateFn      func(ctx context.Context, comment *domain.Comment) error
	ListByTaskFn  func(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)
	ListByTasksFn func(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*domain.Comment, error)
	DeleteFn      func(ctx context.Context, id uuid.UUID) error

	// CreatedComments records comments passed to Create when no CreateFn is set.
	CreatedComments []*domain.Comment

	mu sync.Mutex
}

var _ store.CommentStore = (*MockCommentStore)(nil)

func (m *MockCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedComments = append(m.CreatedComments, comment)
	return nil
}

func (m *MockCommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	if m.ListByTaskFn != nil {
		return m.ListByTaskFn(ctx, taskID)
	}
	return nil, nil
}

func (m *MockCommentStore) ListByTasks(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*domain.Comment, error) {
	if m.ListByTasksFn != nil {
		return m.ListByTasksFn(ctx, taskIDs)
	}
	return map[uuid.UUID][]*domain.Comment{}, nil
}

func (m *MockCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return m
}
