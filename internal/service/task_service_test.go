package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/domain/taskstats"
	"github.com/taskwell/taskwell-api/internal/mocks"
	"github.com/taskwell/taskwell-api/internal/store"
)

// taskServiceFixture bundles the mock stores behind a TaskServiceImpl so
// individual tests override only what they care about.
type taskServiceFixture struct {
	tasks       *mocks.MockTaskStore
	categories  *mocks.MockCategoryStore
	users       *mocks.MockUserStore
	comments    *mocks.MockCommentStore
	attachments *mocks.MockAttachmentStore
	history     *mocks.MockTaskHistoryStore
	files       *mocks.MockFileStore
	svc         *TaskServiceImpl
}

func newTaskServiceFixture(now time.Time) *taskServiceFixture {
	f := &taskServiceFixture{
		tasks:       &mocks.MockTaskStore{},
		categories:  &mocks.MockCategoryStore{},
		users:       &mocks.MockUserStore{},
		comments:    &mocks.MockCommentStore{},
		attachments: &mocks.MockAttachmentStore{},
		history:     &mocks.MockTaskHistoryStore{},
		files:       &mocks.MockFileStore{},
	}
	f.svc = NewTaskService(
		f.tasks, f.categories, f.users, f.comments, f.attachments, f.history,
		f.files, nil, testLogger(),
	).WithNow(func() time.Time { return now })
	f.svc.runTx = passthroughTx

	// Relation loads resolve every user by default.
	f.users.GetByIDsFn = func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error) {
		found := make(map[uuid.UUID]*domain.User, len(ids))
		for _, id := range ids {
			found[id] = &domain.User{ID: id, Username: "user-" + id.String()[:8], HashedPassword: "x"}
		}
		return found, nil
	}
	return f
}

// serveTask makes GetByID return the given task so the post-write reload in
// Create/Update has something to fetch.
func (f *taskServiceFixture) serveTask(task *domain.Task) {
	f.tasks.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
		if id == task.ID {
			return task, nil
		}
		return nil, store.ErrTaskNotFound
	}
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	assignee := uuid.New()
	creator := uuid.New()

	t.Run("defaults and persistence", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		var created *domain.Task
		f.tasks.CreateFn = func(ctx context.Context, task *domain.Task) error {
			created = task
			f.serveTask(task)
			return nil
		}

		got, err := f.svc.Create(context.Background(), CreateTaskInput{
			Title:       "Write report",
			Description: "Q3 numbers",
			AssignedTo:  assignee,
		}, creator)
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, domain.TaskPriorityMedium, created.Priority)
		assert.Equal(t, domain.TaskStatusPending, created.Status)
		assert.Equal(t, creator, created.CreatedBy)
		assert.Nil(t, created.CompletedAt)
		assert.Equal(t, created.ID, got.Task.ID)
		require.NotNil(t, got.Assignee)
		assert.Equal(t, assignee, got.Assignee.ID)
	})

	t.Run("created completed gets a completion timestamp", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		var created *domain.Task
		f.tasks.CreateFn = func(ctx context.Context, task *domain.Task) error {
			created = task
			f.serveTask(task)
			return nil
		}

		_, err := f.svc.Create(context.Background(), CreateTaskInput{
			Title:      "Already done",
			AssignedTo: assignee,
			Status:     domain.TaskStatusCompleted,
		}, creator)
		require.NoError(t, err)

		require.NotNil(t, created.CompletedAt)
		assert.True(t, created.CompletedAt.Equal(now))
	})

	t.Run("invalid priority", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)

		_, err := f.svc.Create(context.Background(), CreateTaskInput{
			Title:      "Bad",
			AssignedTo: assignee,
			Priority:   "critical",
		}, creator)
		assert.ErrorIs(t, err, domain.ErrInvalidTaskPriority)
	})

	t.Run("dangling reference surfaces as invalid entity", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		f.tasks.CreateFn = func(ctx context.Context, task *domain.Task) error {
			return store.ErrInvalidEntity
		}

		_, err := f.svc.Create(context.Background(), CreateTaskInput{
			Title:      "Orphan",
			AssignedTo: assignee,
		}, creator)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	actor := uuid.New()

	baseTask := func() *domain.Task {
		return &domain.Task{
			ID:          uuid.New(),
			Title:       "Original title",
			Description: "Original description",
			AssignedTo:  uuid.New(),
			CreatedBy:   uuid.New(),
			Priority:    domain.TaskPriorityMedium,
			Status:      domain.TaskStatusPending,
			CreatedAt:   now.Add(-48 * time.Hour),
			UpdatedAt:   now.Add(-48 * time.Hour),
		}
	}

	t.Run("writes one audit record per changed field", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		task := baseTask()
		f.serveTask(task)

		title := "New title"
		status := domain.TaskStatusInProgress
		_, err := f.svc.Update(context.Background(), task.ID, UpdateTaskInput{
			Title:  &title,
			Status: &status,
		}, actor)
		require.NoError(t, err)

		require.Len(t, f.history.CreatedRecords, 2)

		byField := make(map[string]*domain.TaskHistory)
		for _, record := range f.history.CreatedRecords {
			byField[record.FieldName] = record
			assert.Equal(t, task.ID, record.TaskID)
			assert.Equal(t, actor, record.ChangedBy)
			assert.True(t, record.ChangedAt.Equal(now))
		}

		require.Contains(t, byField, "title")
		assert.Equal(t, "Original title", byField["title"].OldValue)
		assert.Equal(t, "New title", byField["title"].NewValue)

		require.Contains(t, byField, "status")
		assert.Equal(t, "pending", byField["status"].OldValue)
		assert.Equal(t, "in_progress", byField["status"].NewValue)
	})

	t.Run("no-op update writes no audit records", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		task := baseTask()
		f.serveTask(task)

		title := task.Title
		_, err := f.svc.Update(context.Background(), task.ID, UpdateTaskInput{Title: &title}, actor)
		require.NoError(t, err)

		assert.Empty(t, f.history.CreatedRecords)
	})

	t.Run("completing sets completed_at in the same write", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		task := baseTask()
		f.serveTask(task)

		var updated *domain.Task
		f.tasks.UpdateFn = func(ctx context.Context, got *domain.Task) error {
			updated = got
			return nil
		}

		status := domain.TaskStatusCompleted
		_, err := f.svc.Update(context.Background(), task.ID, UpdateTaskInput{Status: &status}, actor)
		require.NoError(t, err)

		require.NotNil(t, updated)
		require.NotNil(t, updated.CompletedAt)
		assert.True(t, updated.CompletedAt.Equal(now))
	})

	t.Run("clearing category and due date", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		task := baseTask()
		categoryID := uuid.New()
		due := now.Add(24 * time.Hour)
		task.CategoryID = &categoryID
		task.DueDate = &due
		f.serveTask(task)

		var updated *domain.Task
		f.tasks.UpdateFn = func(ctx context.Context, got *domain.Task) error {
			updated = got
			return nil
		}

		_, err := f.svc.Update(context.Background(), task.ID, UpdateTaskInput{
			ClearCategory: true,
			ClearDueDate:  true,
		}, actor)
		require.NoError(t, err)

		require.NotNil(t, updated)
		assert.Nil(t, updated.CategoryID)
		assert.Nil(t, updated.DueDate)

		// Both clears are audited.
		fields := make([]string, 0, len(f.history.CreatedRecords))
		for _, record := range f.history.CreatedRecords {
			fields = append(fields, record.FieldName)
		}
		assert.ElementsMatch(t, []string{"category", "due_date"}, fields)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)

		title := "whatever"
		_, err := f.svc.Update(context.Background(), uuid.New(), UpdateTaskInput{Title: &title}, actor)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("audit rows abort the update on failure", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		task := baseTask()
		f.serveTask(task)
		f.history.CreateFn = func(ctx context.Context, history *domain.TaskHistory) error {
			return errors.New("insert failed")
		}

		title := "New title"
		_, err := f.svc.Update(context.Background(), task.ID, UpdateTaskInput{Title: &title}, actor)
		assert.Error(t, err)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	taskID := uuid.New()

	t.Run("removes attachment files after the row delete", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		f.attachments.ListByTaskFn = func(ctx context.Context, id uuid.UUID) ([]*domain.Attachment, error) {
			return []*domain.Attachment{
				{ID: uuid.New(), TaskID: id, FilePath: "aaa.pdf"},
				{ID: uuid.New(), TaskID: id, FilePath: "bbb.png"},
			}, nil
		}

		err := f.svc.Delete(context.Background(), taskID)
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"aaa.pdf", "bbb.png"}, f.files.RemovedKeys)
	})

	t.Run("file removal failure does not fail the delete", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		f.attachments.ListByTaskFn = func(ctx context.Context, id uuid.UUID) ([]*domain.Attachment, error) {
			return []*domain.Attachment{{ID: uuid.New(), TaskID: id, FilePath: "aaa.pdf"}}, nil
		}
		f.files.RemoveFn = func(ctx context.Context, key string) error {
			return errors.New("disk gone")
		}

		err := f.svc.Delete(context.Background(), taskID)
		assert.NoError(t, err)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		f.tasks.DeleteFn = func(ctx context.Context, id uuid.UUID) error {
			return store.ErrTaskNotFound
		}

		err := f.svc.Delete(context.Background(), taskID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskServiceStats(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	workID := uuid.New()

	f := newTaskServiceFixture(now)
	f.tasks.ListAllFn = func(ctx context.Context, filter taskstats.Filter, at time.Time) ([]*domain.Task, error) {
		assert.True(t, at.Equal(now))
		completed := now.Add(-24 * time.Hour)
		return []*domain.Task{
			{
				ID:         uuid.New(),
				Title:      "a",
				AssignedTo: uuid.New(),
				Priority:   domain.TaskPriorityHigh,
				Status:     domain.TaskStatusPending,
				CategoryID: &workID,
			},
			{
				ID:          uuid.New(),
				Title:       "b",
				AssignedTo:  uuid.New(),
				Priority:    domain.TaskPriorityLow,
				Status:      domain.TaskStatusCompleted,
				CreatedAt:   now.Add(-72 * time.Hour),
				CompletedAt: &completed,
			},
		}, nil
	}
	f.categories.GetNamesFn = func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
		assert.Equal(t, []uuid.UUID{workID}, ids)
		return map[uuid.UUID]string{workID: "Work"}, nil
	}

	stats, err := f.svc.Stats(context.Background(), taskstats.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalTasks)
	assert.Equal(t, 1, stats.PendingTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 1, stats.TasksByCategory["Work"])
	assert.Equal(t, 1, stats.TasksByCategory[taskstats.UncategorizedKey])
	assert.InDelta(t, 50.0, stats.CompletionRate, 0.001)
}

func TestTaskServiceAddComment(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	authorID := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		task := &domain.Task{ID: uuid.New(), Title: "t", AssignedTo: uuid.New(), CreatedBy: uuid.New()}
		f.serveTask(task)
		f.users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Username: "author", HashedPassword: "x"}, nil
		}

		got, err := f.svc.AddComment(context.Background(), task.ID, authorID, "Looks good")
		require.NoError(t, err)

		assert.Equal(t, "Looks good", got.Comment.Content)
		assert.Equal(t, task.ID, got.Comment.TaskID)
		assert.Equal(t, authorID, got.Comment.AuthorID)
		require.NotNil(t, got.Author)
		assert.Equal(t, authorID, got.Author.ID)
		require.Len(t, f.comments.CreatedComments, 1)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)

		_, err := f.svc.AddComment(context.Background(), uuid.New(), authorID, "hi")
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		task := &domain.Task{ID: uuid.New(), Title: "t", AssignedTo: uuid.New(), CreatedBy: uuid.New()}
		f.serveTask(task)

		_, err := f.svc.AddComment(context.Background(), task.ID, authorID, "")
		assert.Error(t, err)
		assert.Empty(t, f.comments.CreatedComments)
	})
}

func TestTaskServiceAddAttachment(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	uploaderID := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		task := &domain.Task{ID: uuid.New(), Title: "t", AssignedTo: uuid.New(), CreatedBy: uuid.New()}
		f.serveTask(task)
		f.users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Username: "uploader", HashedPassword: "x"}, nil
		}

		got, err := f.svc.AddAttachment(
			context.Background(), task.ID, uploaderID,
			"report.pdf", strings.NewReader("pdf bytes"),
		)
		require.NoError(t, err)

		assert.Equal(t, "report.pdf", got.Attachment.Filename)
		assert.Equal(t, int64(len("pdf bytes")), got.Attachment.FileSize)
		assert.NotEmpty(t, got.Attachment.FilePath)
		require.Len(t, f.attachments.CreatedAttachments, 1)
	})

	t.Run("nil reader", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)

		_, err := f.svc.AddAttachment(context.Background(), uuid.New(), uploaderID, "x.pdf", nil)
		assert.ErrorIs(t, err, ErrMissingFile)
	})

	t.Run("record failure removes the stored file", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(now)
		task := &domain.Task{ID: uuid.New(), Title: "t", AssignedTo: uuid.New(), CreatedBy: uuid.New()}
		f.serveTask(task)
		f.attachments.CreateFn = func(ctx context.Context, attachment *domain.Attachment) error {
			return store.ErrInvalidEntity
		}

		var removed []string
		f.files.RemoveFn = func(ctx context.Context, key string) error {
			removed = append(removed, key)
			return nil
		}

		_, err := f.svc.AddAttachment(
			context.Background(), task.ID, uploaderID,
			"x.pdf", strings.NewReader("bytes"),
		)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Len(t, removed, 1, "orphaned bytes must be cleaned up")
	})
}

func TestTaskServiceList(t *testing.T) {
	t.Parallel()

	now := fixedNow()

	f := newTaskServiceFixture(now)
	taskA := &domain.Task{ID: uuid.New(), Title: "a", AssignedTo: uuid.New(), CreatedBy: uuid.New()}
	taskB := &domain.Task{ID: uuid.New(), Title: "b", AssignedTo: uuid.New(), CreatedBy: uuid.New()}

	f.tasks.ListFn = func(ctx context.Context, filter taskstats.Filter, page store.Page, at time.Time) ([]*domain.Task, int, error) {
		assert.Equal(t, 2, page.Number)
		assert.Equal(t, 10, page.Size)
		return []*domain.Task{taskA, taskB}, 12, nil
	}
	f.comments.ListByTasksFn = func(ctx context.Context, taskIDs []uuid.UUID) (map[uuid.UUID][]*domain.Comment, error) {
		assert.ElementsMatch(t, []uuid.UUID{taskA.ID, taskB.ID}, taskIDs)
		return map[uuid.UUID][]*domain.Comment{
			taskA.ID: {{ID: uuid.New(), TaskID: taskA.ID, AuthorID: uuid.New(), Content: "hi"}},
		}, nil
	}

	related, total, err := f.svc.List(context.Background(), taskstats.Filter{}, store.Page{Number: 2, Size: 10})
	require.NoError(t, err)

	assert.Equal(t, 12, total)
	require.Len(t, related, 2)
	assert.Len(t, related[0].Comments, 1)
	assert.Empty(t, related[0].History, "list reads do not load history")
	require.NotNil(t, related[0].Assignee)
}

func TestTaskServiceGetLoadsHistory(t *testing.T) {
	t.Parallel()

	now := fixedNow()

	f := newTaskServiceFixture(now)
	task := &domain.Task{ID: uuid.New(), Title: "t", AssignedTo: uuid.New(), CreatedBy: uuid.New()}
	f.serveTask(task)
	f.history.ListByTaskFn = func(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskHistory, error) {
		return []*domain.TaskHistory{
			{ID: uuid.New(), TaskID: taskID, ChangedBy: uuid.New(), FieldName: "status", OldValue: "pending", NewValue: "in_progress", ChangedAt: now},
		}, nil
	}

	got, err := f.svc.Get(context.Background(), task.ID)
	require.NoError(t, err)

	require.Len(t, got.History, 1)
	assert.Equal(t, "status", got.History[0].History.FieldName)
	require.NotNil(t, got.History[0].Actor)
}

func TestTaskServiceOpenAttachment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns record and contents", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(fixedNow())

		key, size, err := f.files.Save(ctx, "report.pdf", strings.NewReader("file contents"))
		require.NoError(t, err)

		attachment := &domain.Attachment{
			ID:       uuid.New(),
			TaskID:   uuid.New(),
			FilePath: key,
			Filename: "report.pdf",
			FileSize: size,
		}
		f.attachments.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
			if id == attachment.ID {
				return attachment, nil
			}
			return nil, store.ErrAttachmentNotFound
		}

		got, rc, err := f.svc.OpenAttachment(ctx, attachment.ID)
		require.NoError(t, err)
		defer func() {
			require.NoError(t, rc.Close())
		}()

		assert.Equal(t, attachment, got)
		contents, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "file contents", string(contents))
	})

	t.Run("unknown attachment", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(fixedNow())

		_, _, err := f.svc.OpenAttachment(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrAttachmentNotFound)
	})

	t.Run("missing stored file", func(t *testing.T) {
		t.Parallel()

		f := newTaskServiceFixture(fixedNow())
		f.attachments.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
			return &domain.Attachment{ID: id, FilePath: "missing-key"}, nil
		}

		_, _, err := f.svc.OpenAttachment(ctx, uuid.New())
		assert.Error(t, err)
	})
}
