package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	mu sync.Mutex

	CreateFn             func(ctx context.Context, user *domain.User) error
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFn      func(ctx context.Context, username string) (*domain.User, error)
	GetByEmailFn         func(ctx context.Context, email string) (*domain.User, error)
	ListFn               func(ctx context.Context) ([]*domain.User, error)
	GetByIDsFn           func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error)
	UpdateFn             func(ctx context.Context, user *domain.User) error
	DeleteFn             func(ctx context.Context, id uuid.UUID) error
	CountTasksAssignedFn func(ctx context.Context, id uuid.UUID) (int, error)
	CountTasksCreatedFn  func(ctx context.Context, id uuid.UUID) (int, error)

	// CreatedUsers records every user passed to Create.
	CreatedUsers []*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	m.CreatedUsers = append(m.CreatedUsers, user)
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return []*domain.User{}, nil
}

func (m *MockUserStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	if m.GetByIDsFn != nil {
		return m.GetByIDsFn(ctx, ids)
	}
	return map[uuid.UUID]*domain.User{}, nil
}

func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return nil
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockUserStore) CountTasksAssigned(ctx context.Context, id uuid.UUID) (int, error) {
	if m.CountTasksAssignedFn != nil {
		return m.CountTasksAssignedFn(ctx, id)
	}
	return 0, nil
}

func (m *MockUserStore) CountTasksCreated(ctx context.Context, id uuid.UUID) (int, error) {
	if m.CountTasksCreatedFn != nil {
		return m.CountTasksCreatedFn(ctx, id)
	}
	return 0, nil
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
