package api

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
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/mocks/svcmocks"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/store"
)

func TestListCategoriesEndpoint(t *testing.T) {
	t.Parallel()

	categoryService := &svcmocks.MockCategoryService{
		ListFn: func(ctx context.Context) ([]*service.CategoryWithCount, error) {
			return []*service.CategoryWithCount{
				{Category: &domain.Category{ID: uuid.New(), Name: "Home", Color: "#00ff00"}, TaskCount: 0},
				{Category: &domain.Category{ID: uuid.New(), Name: "Work", Color: "#ff0000"}, TaskCount: 5},
			}, nil
		},
	}
	handler := NewCategoryHandler(categoryService)

	recorder := httptest.NewRecorder()
	handler.ListCategories(recorder, httptest.NewRequest("GET", "/api/categories", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp []CategoryResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Home", resp[0].Name)
	assert.Equal(t, "Work", resp[1].Name)
	assert.Equal(t, 5, resp[1].TaskCount)
}

func TestCreateCategoryEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		categoryService := &svcmocks.MockCategoryService{
			CreateFn: func(ctx context.Context, input service.CategoryInput) (*service.CategoryWithCount, error) {
				assert.Equal(t, "Work", input.Name)
				assert.Equal(t, "#ff0000", input.Color)
				return &service.CategoryWithCount{
					Category: &domain.Category{ID: uuid.New(), Name: input.Name, Color: input.Color},
				}, nil
			},
		}
		handler := NewCategoryHandler(categoryService)

		recorder := httptest.NewRecorder()
		handler.CreateCategory(recorder, jsonRequest(t, "POST", "/api/categories", map[string]any{
			"name":  "Work",
			"color": "#ff0000",
		}))

		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp CategoryResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Work", resp.Name)
	})

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()

		categoryService := &svcmocks.MockCategoryService{
			CreateFn: func(ctx context.Context, input service.CategoryInput) (*service.CategoryWithCount, error) {
				return nil, store.ErrCategoryNameExists
			},
		}
		handler := NewCategoryHandler(categoryService)

		recorder := httptest.NewRecorder()
		handler.CreateCategory(recorder, jsonRequest(t, "POST", "/api/categories", map[string]any{
			"name": "Work",
		}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "A category with that name already exists", resp.Error)
	})

	t.Run("invalid color", func(t *testing.T) {
		t.Parallel()

		handler := NewCategoryHandler(&svcmocks.MockCategoryService{})

		recorder := httptest.NewRecorder()
		handler.CreateCategory(recorder, jsonRequest(t, "POST", "/api/categories", map[string]any{
			"name":  "Work",
			"color": "red",
		}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		handler := NewCategoryHandler(&svcmocks.MockCategoryService{})

		recorder := httptest.NewRecorder()
		handler.CreateCategory(recorder, jsonRequest(t, "POST", "/api/categories", map[string]any{}))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestGetCategoryEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		handler := NewCategoryHandler(&svcmocks.MockCategoryService{})

		id := uuid.New().String()
		recorder := httptest.NewRecorder()
		handler.GetCategory(recorder, withTaskID(httptest.NewRequest("GET", "/api/categories/"+id, nil), id))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		t.Parallel()

		handler := NewCategoryHandler(&svcmocks.MockCategoryService{})

		recorder := httptest.NewRecorder()
		handler.GetCategory(recorder, withTaskID(httptest.NewRequest("GET", "/api/categories/abc", nil), "abc"))

		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Category not found", resp.Error)
	})
}

func TestUpdateCategoryEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		categoryID := uuid.New()
		categoryService := &svcmocks.MockCategoryService{
			UpdateFn: func(ctx context.Context, id uuid.UUID, input service.CategoryInput) (*service.CategoryWithCount, error) {
				assert.Equal(t, categoryID, id)
				assert.Equal(t, "Errands", input.Name)
				return &service.CategoryWithCount{
					Category: &domain.Category{ID: id, Name: input.Name, Color: "#00ff00"},
				}, nil
			},
		}
		handler := NewCategoryHandler(categoryService)

		recorder := httptest.NewRecorder()
		req := jsonRequest(t, "PUT", "/api/categories/"+categoryID.String(), map[string]any{
			"name": "Errands",
		})
		handler.UpdateCategory(recorder, withTaskID(req, categoryID.String()))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp CategoryResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Errands", resp.Name)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		handler := NewCategoryHandler(&svcmocks.MockCategoryService{})

		id := uuid.New().String()
		recorder := httptest.NewRecorder()
		req := jsonRequest(t, "PUT", "/api/categories/"+id, map[string]any{"name": "Errands"})
		handler.UpdateCategory(recorder, withTaskID(req, id))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestDeleteCategoryEndpoint(t *testing.T) {
	t.Parallel()

	deleted := false
	categoryService := &svcmocks.MockCategoryService{
		DeleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	handler := NewCategoryHandler(categoryService)

	id := uuid.New().String()
	recorder := httptest.NewRecorder()
	handler.DeleteCategory(recorder, withTaskID(httptest.NewRequest("DELETE", "/api/categories/"+id, nil), id))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.True(t, deleted)
}

func TestUserEndpoints(t *testing.T) {
	t.Parallel()

	t.Run("list users", func(t *testing.T) {
		t.Parallel()

		userService := &svcmocks.MockUserService{
			ListUsersFn: func(ctx context.Context) ([]*domain.User, error) {
				return []*domain.User{
					{ID: uuid.New(), Username: "alice", Email: "alice@example.com"},
					{ID: uuid.New(), Username: "bob", Email: "bob@example.com"},
				}, nil
			},
		}
		handler := NewUserHandler(userService)

		recorder := httptest.NewRecorder()
		handler.ListUsers(recorder, httptest.NewRequest("GET", "/api/users", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp []UserResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "alice", resp[0].Username)
	})

	t.Run("get user", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		userService := &svcmocks.MockUserService{
			GetUserFn: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
				if id == userID {
					return &domain.User{ID: id, Username: "alice", Email: "alice@example.com"}, nil
				}
				return nil, store.ErrUserNotFound
			},
		}
		handler := NewUserHandler(userService)

		recorder := httptest.NewRecorder()
		handler.GetUser(recorder, withTaskID(httptest.NewRequest("GET", "/api/users/"+userID.String(), nil), userID.String()))

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp UserResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "alice", resp.Username)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		handler := NewUserHandler(&svcmocks.MockUserService{})

		id := uuid.New().String()
		recorder := httptest.NewRecorder()
		handler.GetUser(recorder, withTaskID(httptest.NewRequest("GET", "/api/users/"+id, nil), id))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("malformed user id", func(t *testing.T) {
		t.Parallel()

		handler := NewUserHandler(&svcmocks.MockUserService{})

		recorder := httptest.NewRecorder()
		handler.GetUser(recorder, withTaskID(httptest.NewRequest("GET", "/api/users/xyz", nil), "xyz"))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
