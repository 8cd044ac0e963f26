package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/mocks"
	"github.com/taskwell/taskwell-api/internal/store"
)

func TestCategoryServiceList(t *testing.T) {
	t.Parallel()

	work := &domain.Category{ID: uuid.New(), Name: "Work", Color: "#ff0000"}
	home := &domain.Category{ID: uuid.New(), Name: "Home", Color: "#00ff00"}

	categoryStore := &mocks.MockCategoryStore{
		ListFn: func(ctx context.Context) ([]*domain.Category, error) {
			return []*domain.Category{home, work}, nil
		},
		CountTasksFn: func(ctx context.Context, id uuid.UUID) (int, error) {
			if id == work.ID {
				return 5, nil
			}
			return 0, nil
		},
	}
	svc := NewCategoryService(categoryStore, testLogger())

	got, err := svc.List(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Home", got[0].Category.Name)
	assert.Equal(t, 0, got[0].TaskCount)
	assert.Equal(t, "Work", got[1].Category.Name)
	assert.Equal(t, 5, got[1].TaskCount)
}

func TestCategoryServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("empty color takes the default", func(t *testing.T) {
		t.Parallel()

		var created *domain.Category
		categoryStore := &mocks.MockCategoryStore{
			CreateFn: func(ctx context.Context, category *domain.Category) error {
				created = category
				return nil
			},
		}
		svc := NewCategoryService(categoryStore, testLogger())

		got, err := svc.Create(context.Background(), CategoryInput{Name: "Work"})
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, domain.DefaultCategoryColor, created.Color)
		assert.Equal(t, 0, got.TaskCount)
	})

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()

		categoryStore := &mocks.MockCategoryStore{
			CreateFn: func(ctx context.Context, category *domain.Category) error {
				return store.ErrCategoryNameExists
			},
		}
		svc := NewCategoryService(categoryStore, testLogger())

		_, err := svc.Create(context.Background(), CategoryInput{Name: "Work"})
		assert.ErrorIs(t, err, store.ErrCategoryNameExists)
	})

	t.Run("invalid color", func(t *testing.T) {
		t.Parallel()

		svc := NewCategoryService(&mocks.MockCategoryStore{}, testLogger())

		_, err := svc.Create(context.Background(), CategoryInput{Name: "Work", Color: "red"})
		assert.ErrorIs(t, err, domain.ErrInvalidCategoryColor)
	})
}

func TestCategoryServiceUpdate(t *testing.T) {
	t.Parallel()

	categoryID := uuid.New()
	stored := func() *domain.Category {
		return &domain.Category{
			ID:          categoryID,
			Name:        "Work",
			Description: "Office things",
			Color:       "#ff0000",
		}
	}

	t.Run("empty color keeps the current one", func(t *testing.T) {
		t.Parallel()

		var updated *domain.Category
		categoryStore := &mocks.MockCategoryStore{
			GetByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
				return stored(), nil
			},
			UpdateFn: func(ctx context.Context, category *domain.Category) error {
				updated = category
				return nil
			},
		}
		svc := NewCategoryService(categoryStore, testLogger())

		_, err := svc.Update(context.Background(), categoryID, CategoryInput{Name: "Office"})
		require.NoError(t, err)

		require.NotNil(t, updated)
		assert.Equal(t, "Office", updated.Name)
		assert.Equal(t, "#ff0000", updated.Color)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		svc := NewCategoryService(&mocks.MockCategoryStore{}, testLogger())

		_, err := svc.Update(context.Background(), uuid.New(), CategoryInput{Name: "Office"})
		assert.ErrorIs(t, err, store.ErrCategoryNotFound)
	})
}

func TestCategoryServiceDelete(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		svc := NewCategoryService(&mocks.MockCategoryStore{}, testLogger())
		assert.NoError(t, svc.Delete(context.Background(), uuid.New()))
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()

		categoryStore := &mocks.MockCategoryStore{
			DeleteFn: func(ctx context.Context, id uuid.UUID) error {
				return store.ErrCategoryNotFound
			},
		}
		svc := NewCategoryService(categoryStore, testLogger())

		err := svc.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrCategoryNotFound)
	})
}
