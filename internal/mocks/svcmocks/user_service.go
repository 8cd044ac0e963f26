package svcmocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockUserService implements service.UserService for handler tests.
type MockUserService struct {
	RegisterFn       func(ctx context.Context, input service.RegisterInput) (*domain.User, error)
	AuthenticateFn   func(ctx context.Context, username, password string) (*domain.User, error)
	GetUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetProfileFn     func(ctx context.Context, userID uuid.UUID) (*service.Profile, error)
	ListUsersFn      func(ctx context.Context) ([]*domain.User, error)
	UpdateProfileFn  func(ctx context.Context, userID uuid.UUID, input service.ProfileUpdateInput) (*service.Profile, error)
	ChangePasswordFn func(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, newPasswordConfirm string) error
	EmailExistsFn    func(ctx context.Context, email string) (bool, error)
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, input)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, username, password)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uuid.UUID) (*service.Profile, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, userID)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return nil, nil
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input service.ProfileUpdateInput) (*service.Profile, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, userID, input)
	}
	return nil, store.ErrUserNotFound
}

func (m *MockUserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, newPasswordConfirm string) error {
	if m.ChangePasswordFn != nil {
		return m.ChangePasswordFn(ctx, userID, oldPassword, newPassword, newPasswordConfirm)
	}
	return nil
}

func (m *MockUserService) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.EmailExistsFn != nil {
		return m.EmailExistsFn(ctx, email)
	}
	return false, nil
}
