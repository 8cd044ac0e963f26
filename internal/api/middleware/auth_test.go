package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/mocks"
	"github.com/taskwell/taskwell-api/internal/service/auth"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name            string
		authHeader      string
		validateErr     error
		claims          *auth.Claims
		expectedStatus  int
		expectedMessage string
		expectedUserID  uuid.UUID
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: userID},
			expectedStatus: http.StatusOK,
			expectedUserID: userID,
		},
		{
			name:            "missing auth header",
			authHeader:      "",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Authorization header required",
		},
		{
			name:            "invalid auth format",
			authHeader:      "InvalidFormat",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid authorization format",
		},
		{
			name:            "wrong scheme",
			authHeader:      "Basic dXNlcjpwYXNz",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid authorization format",
		},
		{
			name:            "expired token",
			authHeader:      "Bearer expired-token",
			validateErr:     auth.ErrExpiredToken,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Token expired",
		},
		{
			name:            "invalid token",
			authHeader:      "Bearer invalid-token",
			validateErr:     auth.ErrInvalidToken,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid token",
		},
		{
			name:            "refresh token used as access token",
			authHeader:      "Bearer refresh-token",
			validateErr:     auth.ErrWrongTokenType,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid token",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{
				Claims: tt.claims,
				Err:    tt.validateErr,
			}
			middleware := NewAuthMiddleware(jwtService)

			var capturedUserID uuid.UUID
			var capturedClaims *auth.Claims
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id, ok := GetUserID(r); ok {
					capturedUserID = id
				}
				if claims, ok := GetClaims(r); ok {
					capturedClaims = claims
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Add("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			middleware.Authenticate(nextHandler).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUserID, capturedUserID)
				require.NotNil(t, capturedClaims)
				assert.Equal(t, tt.expectedUserID, capturedClaims.UserID)
			} else {
				var resp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, tt.expectedMessage, resp.Error)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Parallel()

	testUserID := uuid.New()

	t.Run("context with user ID", func(t *testing.T) {
		t.Parallel()

		req, err := http.NewRequest("GET", "/", nil)
		require.NoError(t, err)
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, testUserID)
		req = req.WithContext(ctx)

		userID, ok := GetUserID(req)

		assert.True(t, ok)
		assert.Equal(t, testUserID, userID)
	})

	t.Run("context without user ID", func(t *testing.T) {
		t.Parallel()

		req, err := http.NewRequest("GET", "/", nil)
		require.NoError(t, err)

		userID, ok := GetUserID(req)

		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, userID)
	})
}
