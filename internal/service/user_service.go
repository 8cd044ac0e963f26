package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

// ProfileUpdateInput carries the profile fields a user may change. Nil
// pointers leave the current value untouched.
type ProfileUpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// Profile is a user together with their task involvement counts.
type Profile struct {
	User          *domain.User
	TasksAssigned int
	TasksCreated  int
}

// UserService provides registration, authentication support, and profile
// operations.
type UserService interface {
	// Register creates a new account. Username and email must each be
	// globally unique; the password and its confirmation must match.
	// Returns store.ErrUsernameExists, store.ErrEmailExists, or
	// ErrPasswordMismatch on the corresponding validation failure.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Authenticate verifies a username/password pair.
	// Returns ErrInvalidCredentials when either is wrong and
	// ErrInactiveUser for deactivated accounts.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetProfile retrieves a user together with their assigned/created
	// task counts.
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// ListUsers retrieves all users ordered by username.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// UpdateProfile applies the given profile changes.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*Profile, error)

	// ChangePassword replaces the user's credential after verifying the
	// old one. Returns ErrWrongPassword when the old password does not
	// verify and ErrPasswordMismatch when the confirmation differs.
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, newPasswordConfirm string) error

	// EmailExists reports whether an account with the given email exists.
	// Used by the password-reset request flow.
	EmailExists(ctx context.Context, email string) (bool, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger

	// runTx wraps store.RunInTransaction; injectable for testing.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		db:        db,
		logger:    logger.With("component", "user_service"),
		runTx:     store.RunInTransaction,
	}
}

// Register implements UserService.Register.
func (s *UserServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Password != input.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	user, err := domain.NewUser(input.Username, input.Email, input.FirstName, input.LastName, input.Password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password",
			"error", err,
			"username", input.Username)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	// Check both uniqueness constraints inside one transaction so the two
	// violations surface independently and with the right field named, then
	// insert. The unique indexes still back this up under concurrency.
	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.userStore.WithTx(tx)

		if _, err := txUsers.GetByUsername(ctx, input.Username); err == nil {
			return store.ErrUsernameExists
		} else if !errors.Is(err, store.ErrUserNotFound) {
			return err
		}

		if _, err := txUsers.GetByEmail(ctx, input.Email); err == nil {
			return store.ErrEmailExists
		} else if !errors.Is(err, store.ErrUserNotFound) {
			return err
		}

		return txUsers.Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("registration rejected: duplicate identity",
				"error", err,
				"username", input.Username)
			return nil, err
		}
		s.logger.Error("failed to register user",
			"error", err,
			"username", input.Username)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"username", user.Username)
	return user, nil
}

// Authenticate implements UserService.Authenticate.
func (s *UserServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for authentication",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// GetUser implements UserService.GetUser.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, err
	}
	return user, nil
}

// GetProfile implements UserService.GetProfile.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	assigned, err := s.userStore.CountTasksAssigned(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count assigned tasks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to count assigned tasks: %w", err)
	}

	created, err := s.userStore.CountTasksCreated(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count created tasks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to count created tasks: %w", err)
	}

	return &Profile{
		User:          user,
		TasksAssigned: assigned,
		TasksCreated:  created,
	}, nil
}

// ListUsers implements UserService.ListUsers.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile implements UserService.UpdateProfile.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*Profile, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			return nil, err
		}
		s.logger.Error("failed to update profile",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("profile updated", "user_id", userID)
	return s.GetProfile(ctx, userID)
}

// ChangePassword implements UserService.ChangePassword.
func (s *UserServiceImpl) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	oldPassword, newPassword, newPasswordConfirm string,
) error {
	if newPassword != newPasswordConfirm {
		return ErrPasswordMismatch
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	// The caller must prove knowledge of the current credential before a
	// new one is accepted.
	if err := s.verifier.Compare(user.HashedPassword, oldPassword); err != nil {
		return ErrWrongPassword
	}

	// Route the new password through domain validation.
	user.Password = newPassword
	if err := user.Validate(); err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.userStore.Update(ctx, user); err != nil {
		s.logger.Error("failed to update password",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// EmailExists implements UserService.EmailExists.
func (s *UserServiceImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
