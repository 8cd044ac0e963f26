package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/mocks"
	"github.com/taskwell/taskwell-api/internal/mocks/svcmocks"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authedRequest simulates a request that passed the auth middleware.
func authedRequest(t *testing.T, method, target string, payload any, userID uuid.UUID) *http.Request {
	t.Helper()

	var req *http.Request
	if payload != nil {
		req = jsonRequest(t, method, target, payload)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func activeTestUser() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Username:       "jdoe",
		Email:          "jdoe@example.com",
		FirstName:      "Jane",
		LastName:       "Doe",
		HashedPassword: "x",
		IsActive:       true,
	}
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	user := activeTestUser()

	newHandler := func(userService service.UserService) *AuthHandler {
		jwtService := &mocks.MockJWTService{Token: "access-token", RefreshToken: "refresh-token"}
		return NewAuthHandler(userService, jwtService, &mocks.MockRevokedTokenStore{})
	}

	tests := []struct {
		name       string
		payload    map[string]any
		registerFn func(ctx context.Context, input service.RegisterInput) (*domain.User, error)
		wantStatus int
		wantError  string
	}{
		{
			name: "valid registration",
			payload: map[string]any{
				"username":         "jdoe",
				"email":            "jdoe@example.com",
				"password":         "password123",
				"password_confirm": "password123",
			},
			registerFn: func(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
				return user, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "invalid email",
			payload: map[string]any{
				"username":         "jdoe",
				"email":            "not-an-email",
				"password":         "password123",
				"password_confirm": "password123",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: map[string]any{
				"username":         "jdoe",
				"email":            "jdoe@example.com",
				"password":         "short",
				"password_confirm": "short",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "confirmation mismatch",
			payload: map[string]any{
				"username":         "jdoe",
				"email":            "jdoe@example.com",
				"password":         "password123",
				"password_confirm": "password456",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "username taken",
			payload: map[string]any{
				"username":         "jdoe",
				"email":            "jdoe@example.com",
				"password":         "password123",
				"password_confirm": "password123",
			},
			registerFn: func(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
				return nil, store.ErrUsernameExists
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "A user with that username already exists",
		},
		{
			name: "email taken",
			payload: map[string]any{
				"username":         "jdoe",
				"email":            "jdoe@example.com",
				"password":         "password123",
				"password_confirm": "password123",
			},
			registerFn: func(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
				return nil, store.ErrEmailExists
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "A user with that email already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newHandler(&svcmocks.MockUserService{RegisterFn: tt.registerFn})

			recorder := httptest.NewRecorder()
			handler.Register(recorder, jsonRequest(t, "POST", "/api/auth/register", tt.payload))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp TokenResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "access-token", resp.Access)
				assert.Equal(t, "refresh-token", resp.Refresh)
				require.NotNil(t, resp.User)
				assert.Equal(t, "jdoe", resp.User.Username)
			}

			if tt.wantError != "" {
				var resp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, tt.wantError, resp.Error)
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	user := activeTestUser()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		userService := &svcmocks.MockUserService{
			AuthenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
				assert.Equal(t, "jdoe", username)
				return user, nil
			},
		}
		jwtService := &mocks.MockJWTService{Token: "access-token", RefreshToken: "refresh-token"}
		handler := NewAuthHandler(userService, jwtService, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.Login(recorder, jsonRequest(t, "POST", "/api/auth/login", map[string]any{
			"username": "jdoe",
			"password": "password123",
		}))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp TokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "access-token", resp.Access)
		require.NotNil(t, resp.User)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		t.Parallel()

		userService := &svcmocks.MockUserService{
			AuthenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
				return nil, service.ErrInvalidCredentials
			},
		}
		handler := NewAuthHandler(userService, &mocks.MockJWTService{}, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.Login(recorder, jsonRequest(t, "POST", "/api/auth/login", map[string]any{
			"username": "jdoe",
			"password": "wrong",
		}))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("inactive account", func(t *testing.T) {
		t.Parallel()

		userService := &svcmocks.MockUserService{
			AuthenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
				return nil, service.ErrInactiveUser
			},
		}
		handler := NewAuthHandler(userService, &mocks.MockJWTService{}, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.Login(recorder, jsonRequest(t, "POST", "/api/auth/login", map[string]any{
			"username": "jdoe",
			"password": "password123",
		}))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(&svcmocks.MockUserService{}, &mocks.MockJWTService{}, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.Login(recorder, jsonRequest(t, "POST", "/api/auth/login", map[string]any{}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestRefreshTokenEndpoint(t *testing.T) {
	t.Parallel()

	user := activeTestUser()
	claims := &auth.Claims{
		UserID:    user.ID,
		TokenType: "refresh",
		ID:        "jti-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	newHandler := func(jwtService *mocks.MockJWTService, revoked *mocks.MockRevokedTokenStore) *AuthHandler {
		userService := &svcmocks.MockUserService{
			GetUserFn: func(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
				return user, nil
			},
		}
		return NewAuthHandler(userService, jwtService, revoked)
	}

	t.Run("valid refresh yields a new pair", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{Token: "new-access", RefreshToken: "new-refresh", Claims: claims}
		handler := newHandler(jwtService, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, jsonRequest(t, "POST", "/api/auth/token/refresh", map[string]any{
			"refresh": "some-refresh-token",
		}))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp TokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "new-access", resp.Access)
		assert.Equal(t, "new-refresh", resp.Refresh)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{
			ValidateRefreshTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrExpiredRefreshToken
			},
		}
		handler := newHandler(jwtService, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, jsonRequest(t, "POST", "/api/auth/token/refresh", map[string]any{
			"refresh": "stale",
		}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{Claims: claims}
		revoked := &mocks.MockRevokedTokenStore{}
		require.NoError(t, revoked.Revoke(context.Background(), claims.ID, user.ID, claims.ExpiresAt))
		handler := newHandler(jwtService, revoked)

		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, jsonRequest(t, "POST", "/api/auth/token/refresh", map[string]any{
			"refresh": "revoked-token",
		}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(&mocks.MockJWTService{Claims: claims}, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.RefreshToken(recorder, jsonRequest(t, "POST", "/api/auth/token/refresh", map[string]any{}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	user := activeTestUser()
	claims := &auth.Claims{
		UserID:    user.ID,
		TokenType: "refresh",
		ID:        "jti-logout",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	t.Run("revokes the presented token", func(t *testing.T) {
		t.Parallel()

		revoked := &mocks.MockRevokedTokenStore{}
		handler := NewAuthHandler(
			&svcmocks.MockUserService{},
			&mocks.MockJWTService{Claims: claims},
			revoked,
		)

		recorder := httptest.NewRecorder()
		handler.Logout(recorder, jsonRequest(t, "POST", "/api/auth/logout", map[string]any{
			"refresh": "valid-refresh",
		}))

		assert.Equal(t, http.StatusOK, recorder.Code)

		isRevoked, err := revoked.IsRevoked(context.Background(), claims.ID)
		require.NoError(t, err)
		assert.True(t, isRevoked)
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(&svcmocks.MockUserService{}, &mocks.MockJWTService{}, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.Logout(recorder, jsonRequest(t, "POST", "/api/auth/logout", map[string]any{
			"refresh": "",
		}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Invalid token", resp.Error)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		jwtService := &mocks.MockJWTService{
			ValidateRefreshTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrInvalidRefreshToken
			},
		}
		handler := NewAuthHandler(&svcmocks.MockUserService{}, jwtService, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.Logout(recorder, jsonRequest(t, "POST", "/api/auth/logout", map[string]any{
			"refresh": "garbage",
		}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestPasswordResetEndpoint(t *testing.T) {
	t.Parallel()

	newHandler := func(exists bool) *AuthHandler {
		userService := &svcmocks.MockUserService{
			EmailExistsFn: func(ctx context.Context, email string) (bool, error) {
				return exists, nil
			},
		}
		return NewAuthHandler(userService, &mocks.MockJWTService{}, &mocks.MockRevokedTokenStore{})
	}

	t.Run("known email", func(t *testing.T) {
		t.Parallel()

		recorder := httptest.NewRecorder()
		newHandler(true).PasswordReset(recorder, jsonRequest(t, "POST", "/api/auth/password-reset", map[string]any{
			"email": "jdoe@example.com",
		}))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		recorder := httptest.NewRecorder()
		newHandler(false).PasswordReset(recorder, jsonRequest(t, "POST", "/api/auth/password-reset", map[string]any{
			"email": "nobody@example.com",
		}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "No user found with this email address", resp.Error)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Parallel()

	user := activeTestUser()

	t.Run("returns profile with counts", func(t *testing.T) {
		t.Parallel()

		userService := &svcmocks.MockUserService{
			GetProfileFn: func(ctx context.Context, userID uuid.UUID) (*service.Profile, error) {
				return &service.Profile{User: user, TasksAssigned: 3, TasksCreated: 1}, nil
			},
		}
		handler := NewAuthHandler(userService, &mocks.MockJWTService{}, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.Me(recorder, authedRequest(t, "GET", "/api/auth/me", nil, user.ID))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp ProfileResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, user.Username, resp.Username)
		assert.Equal(t, 3, resp.TasksAssigned)
		assert.Equal(t, 1, resp.TasksCreated)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		handler := NewAuthHandler(&svcmocks.MockUserService{}, &mocks.MockJWTService{}, &mocks.MockRevokedTokenStore{})

		recorder := httptest.NewRecorder()
		handler.Me(recorder, httptest.NewRequest("GET", "/api/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
