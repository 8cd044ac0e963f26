package svcmocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/domain/taskstats"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MockTaskService implements service.TaskService for handler tests.
type MockTaskService struct {
	ListFn           func(ctx context.Context, filter taskstats.Filter, page store.Page) ([]*service.TaskWithRelations, int, error)
	GetFn            func(ctx context.Context, id uuid.UUID) (*service.TaskWithRelations, error)
	CreateFn         func(ctx context.Context, input service.CreateTaskInput, creatorID uuid.UUID) (*service.TaskWithRelations, error)
	UpdateFn         func(ctx context.Context, id uuid.UUID, input service.UpdateTaskInput, actorID uuid.UUID) (*service.TaskWithRelations, error)
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
	StatsFn          func(ctx context.Context, filter taskstats.Filter) (taskstats.Stats, error)
	AddCommentFn     func(ctx context.Context, taskID, authorID uuid.UUID, content string) (*service.CommentWithAuthor, error)
	AddAttachmentFn  func(ctx context.Context, taskID, uploaderID uuid.UUID, filename string, r io.Reader) (*service.AttachmentWithUploader, error)
	OpenAttachmentFn func(ctx context.Context, attachmentID uuid.UUID) (*domain.Attachment, io.ReadCloser, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) List(ctx context.Context, filter taskstats.Filter, page store.Page) ([]*service.TaskWithRelations, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, page)
	}
	return nil, 0, nil
}

func (m *MockTaskService) Get(ctx context.Context, id uuid.UUID) (*service.TaskWithRelations, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) Create(ctx context.Context, input service.CreateTaskInput, creatorID uuid.UUID) (*service.TaskWithRelations, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input, creatorID)
	}
	return nil, store.ErrInvalidEntity
}

func (m *MockTaskService) Update(ctx context.Context, id uuid.UUID, input service.UpdateTaskInput, actorID uuid.UUID) (*service.TaskWithRelations, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, input, actorID)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *MockTaskService) Stats(ctx context.Context, filter taskstats.Filter) (taskstats.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, filter)
	}
	return taskstats.Stats{}, nil
}

func (m *MockTaskService) AddComment(ctx context.Context, taskID, authorID uuid.UUID, content string) (*service.CommentWithAuthor, error) {
	if m.AddCommentFn != nil {
		return m.AddCommentFn(ctx, taskID, authorID, content)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) AddAttachment(ctx context.Context, taskID, uploaderID uuid.UUID, filename string, r io.Reader) (*service.AttachmentWithUploader, error) {
	if m.AddAttachmentFn != nil {
		return m.AddAttachmentFn(ctx, taskID, uploaderID, filename, r)
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskService) OpenAttachment(ctx context.Context, attachmentID uuid.UUID) (*domain.Attachment, io.ReadCloser, error) {
	if m.OpenAttachmentFn != nil {
		return m.OpenAttachmentFn(ctx, attachmentID)
	}
	return nil, nil, store.ErrAttachmentNotFound
}
