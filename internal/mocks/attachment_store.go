package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockAttachmentStore implements store.AttachmentStore for testing.
type MockAttachmentStore struct {
	CreateFn      func(ctx context.Context, attachment *domain.Attachment) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	ListByTaskFn  func(ctx context.Context, taskID uuid.UUID) ([]*domain.Attachment, error)
	ListByTasksFn func(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*domain.Attachment, error)
	DeleteFn      func(ctx context.Context, id uuid.UUID) error

	// CreatedAttachments records attachments passed to Create when no
	// CreateFn is set.
	CreatedAttachments []*domain.Attachment

	mu sync.Mutex
}

var _ store.AttachmentStore = (*MockAttachmentStore)(nil)

func (m *MockAttachmentStore) Create(ctx context.Context, attachment *domain.Attachment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, attachment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedAttachments = append(m.CreatedAttachments, attachment)
	return nil
}

func (m *MockAttachmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrAttachmentNotFound
}

func (m *MockAttachmentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Attachment, error) {
	if m.ListByTaskFn != nil {
		return m.ListByTaskFn(ctx, taskID)
	}
	return nil, nil
}

func (m *MockAttachmentStore) ListByTasks(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*domain.Attachment, error) {
	if m.ListByTasksFn != nil {
		return m.ListByTasksFn(ctx, taskIDs)
	}
	return map[uuid.UUID][]*domain.Attachment{}, nil
}

func (m *MockAttachmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockAttachmentStore) WithTx(tx *sql.Tx) store.AttachmentStore {
	return m
}
