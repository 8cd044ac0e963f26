package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/domain/taskstats"
	"github.com/taskwell/taskwell-api/internal/platform/files"
	"github.com/taskwell/taskwell-api/internal/store"
)

// CommentWithAuthor pairs a comment with its author for read views.
type CommentWithAuthor struct {
	Comment *domain.Comment
	Author  *domain.User
}

// AttachmentWithUploader pairs an attachment with its uploader for read views.
type AttachmentWithUploader struct {
	Attachment *domain.Attachment
	Uploader   *domain.User
}

// HistoryWithActor pairs an audit record with the user who made the change.
type HistoryWithActor struct {
	History *domain.TaskHistory
	Actor   *domain.User
}

// TaskWithRelations is a task joined with its category, assignee, and
// creator, with comments and attachments eagerly associated. History is
// populated on detail reads only.
type TaskWithRelations struct {
	Task        *domain.Task
	Category    *domain.Category
	Assignee    *domain.User
	Creator     *domain.User
	Comments    []CommentWithAuthor
	Attachments []AttachmentWithUploader
	History     []HistoryWithActor
}

// CreateTaskInput carries the writable task fields for creation. The write
// surface accepts raw foreign-key identifiers, not nested objects.
type CreateTaskInput struct {
	Title          string
	Description    string
	CategoryID     *uuid.UUID
	AssignedTo     uuid.UUID
	Priority       domain.TaskPriority
	Status         domain.TaskStatus
	DueDate        *time.Time
	EstimatedHours *int
	ActualHours    *int
}

// UpdateTaskInput carries the writable task fields for updates. Nil pointers
// leave the current value untouched; the Clear flags distinguish "set to
// empty" from "not provided" for the nullable references.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	CategoryID     *uuid.UUID
	ClearCategory  bool
	AssignedTo     *uuid.UUID
	Priority       *domain.TaskPriority
	Status         *domain.TaskStatus
	DueDate        *time.Time
	ClearDueDate   bool
	EstimatedHours *int
	ActualHours    *int
}

// TaskService provides task CRUD, filtering, statistics, and the comment and
// attachment sub-resources.
type TaskService interface {
	// List retrieves the page of tasks matching the filter, with relations
	// joined, plus the total match count.
	List(ctx context.Context, filter taskstats.Filter, page store.Page) ([]*TaskWithRelations, int, error)

	// Get retrieves a single task with the full relation graph including
	// history.
	// Returns store.ErrTaskNotFound if the task does not exist.
	Get(ctx context.Context, id uuid.UUID) (*TaskWithRelations, error)

	// Create makes a new task created by creatorID.
	Create(ctx context.Context, input CreateTaskInput, creatorID uuid.UUID) (*TaskWithRelations, error)

	// Update applies the given changes as actorID, appending one audit
	// record per changed field atomically with the update itself.
	// Returns store.ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput, actorID uuid.UUID) (*TaskWithRelations, error)

	// Delete removes a task, its comments, attachments, and history, and
	// best-effort removes stored attachment files.
	// Returns store.ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats computes the aggregate snapshot over all tasks matching the
	// filter.
	Stats(ctx context.Context, filter taskstats.Filter) (taskstats.Stats, error)

	// AddComment attaches an authored comment to a task.
	// Returns store.ErrTaskNotFound if the task does not exist.
	AddComment(ctx context.Context, taskID, authorID uuid.UUID, content string) (*CommentWithAuthor, error)

	// AddAttachment stores the uploaded file and records it against the
	// task with the derived filename and byte size.
	// Returns store.ErrTaskNotFound if the task does not exist.
	AddAttachment(ctx context.Context, taskID, uploaderID uuid.UUID, filename string, r io.Reader) (*AttachmentWithUploader, error)

	// OpenAttachment retrieves an attachment record and a reader over its
	// stored contents. The caller must close the reader.
	// Returns store.ErrAttachmentNotFound if the record does not exist.
	OpenAttachment(ctx context.Context, attachmentID uuid.UUID) (*domain.Attachment, io.ReadCloser, error)
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore       store.TaskStore
	categoryStore   store.CategoryStore
	userStore       store.UserStore
	commentStore    store.CommentStore
	attachmentStore store.AttachmentStore
	historyStore    store.TaskHistoryStore
	fileStore       files.Store
	db              *sql.DB
	logger          *slog.Logger
	now             func() time.Time // Injectable for testing

	// runTx wraps store.RunInTransaction; injectable for testing.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskStore store.TaskStore,
	categoryStore store.CategoryStore,
	userStore store.UserStore,
	commentStore store.CommentStore,
	attachmentStore store.AttachmentStore,
	historyStore store.TaskHistoryStore,
	fileStore files.Store,
	db *sql.DB,
	logger *slog.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore:       taskStore,
		categoryStore:   categoryStore,
		userStore:       userStore,
		commentStore:    commentStore,
		attachmentStore: attachmentStore,
		historyStore:    historyStore,
		fileStore:       fileStore,
		db:              db,
		logger:          logger.With("component", "task_service"),
		now:             time.Now,
		runTx:           store.RunInTransaction,
	}
}

// WithNow replaces the service's clock. Tests use this to fix "now" so
// overdue evaluation is deterministic.
func (s *TaskServiceImpl) WithNow(now func() time.Time) *TaskServiceImpl {
	s.now = now
	return s
}

// List implements TaskService.List.
func (s *TaskServiceImpl) List(
	ctx context.Context,
	filter taskstats.Filter,
	page store.Page,
) ([]*TaskWithRelations, int, error) {
	now := s.now().UTC()

	tasks, total, err := s.taskStore.List(ctx, filter, page, now)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	related, err := s.loadRelations(ctx, tasks, false)
	if err != nil {
		return nil, 0, err
	}

	return related, total, nil
}

// Get implements TaskService.Get.
func (s *TaskServiceImpl) Get(ctx context.Context, id uuid.UUID) (*TaskWithRelations, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.loadRelations(ctx, []*domain.Task{task}, true)
	if err != nil {
		return nil, err
	}

	return related[0], nil
}

// Create implements TaskService.Create.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	input CreateTaskInput,
	creatorID uuid.UUID,
) (*TaskWithRelations, error) {
	task, err := domain.NewTask(input.Title, input.Description, input.AssignedTo, creatorID)
	if err != nil {
		return nil, err
	}

	task.CategoryID = input.CategoryID
	task.DueDate = input.DueDate
	task.EstimatedHours = input.EstimatedHours
	task.ActualHours = input.ActualHours
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.Status != "" {
		task.Status = input.Status
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	// Derive completed_at in the same record that carries the status.
	task.ApplyStatusTimestamps(s.now())

	if err := s.taskStore.Create(ctx, task); err != nil {
		if !errors.Is(err, store.ErrInvalidEntity) {
			s.logger.Error("failed to create task",
				"error", err,
				"task_id", task.ID)
		}
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"created_by", creatorID,
		"status", string(task.Status))

	return s.Get(ctx, task.ID)
}

// Update implements TaskService.Update.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateTaskInput,
	actorID uuid.UUID,
) (*TaskWithRelations, error) {
	now := s.now().UTC()

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.taskStore.WithTx(tx)
		txHistory := s.historyStore.WithTx(tx)

		task, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		before := *task
		applyTaskUpdate(task, input)

		if err := task.Validate(); err != nil {
			return err
		}

		// The status write and its derived completion timestamp land in the
		// same row update.
		task.ApplyStatusTimestamps(now)
		task.UpdatedAt = now

		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}

		// One audit record per changed field, atomically with the update.
		for _, change := range diffTaskFields(&before, task) {
			record, err := domain.NewTaskHistory(task.ID, actorID, change.field, change.oldValue, change.newValue)
			if err != nil {
				return err
			}
			record.ChangedAt = now
			if err := txHistory.Create(ctx, record); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) && !errors.Is(err, store.ErrInvalidEntity) {
			s.logger.Error("failed to update task",
				"error", err,
				"task_id", id)
		}
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", id,
		"changed_by", actorID)

	return s.Get(ctx, id)
}

// Delete implements TaskService.Delete.
func (s *TaskServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	attachments, err := s.attachmentStore.ListByTask(ctx, id)
	if err != nil {
		s.logger.Error("failed to list attachments before task delete",
			"error", err,
			"task_id", id)
		return fmt.Errorf("failed to list attachments: %w", err)
	}

	if err := s.taskStore.Delete(ctx, id); err != nil {
		return err
	}

	// Stored files are cleaned up best-effort after the row cascade; a
	// failure here leaves an orphaned file, not a dangling record.
	for _, attachment := range attachments {
		if err := s.fileStore.Remove(ctx, attachment.FilePath); err != nil {
			s.logger.Warn("failed to remove attachment file",
				"error", err,
				"attachment_id", attachment.ID,
				"task_id", id)
		}
	}

	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// Stats implements TaskService.Stats.
func (s *TaskServiceImpl) Stats(ctx context.Context, filter taskstats.Filter) (taskstats.Stats, error) {
	now := s.now().UTC()

	tasks, err := s.taskStore.ListAll(ctx, filter, now)
	if err != nil {
		s.logger.Error("failed to list tasks for stats", "error", err)
		return taskstats.Stats{}, fmt.Errorf("failed to list tasks for stats: %w", err)
	}

	categoryNames, err := s.categoryStore.GetNames(ctx, collectCategoryIDs(tasks))
	if err != nil {
		s.logger.Error("failed to resolve category names for stats", "error", err)
		return taskstats.Stats{}, fmt.Errorf("failed to resolve category names: %w", err)
	}

	return taskstats.Compute(tasks, categoryNames, now), nil
}

// AddComment implements TaskService.AddComment.
func (s *TaskServiceImpl) AddComment(
	ctx context.Context,
	taskID, authorID uuid.UUID,
	content string,
) (*CommentWithAuthor, error) {
	if _, err := s.taskStore.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(taskID, authorID, content)
	if err != nil {
		return nil, err
	}

	if err := s.commentStore.Create(ctx, comment); err != nil {
		if !errors.Is(err, store.ErrInvalidEntity) {
			s.logger.Error("failed to create comment",
				"error", err,
				"task_id", taskID)
		}
		return nil, err
	}

	author, err := s.userStore.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		"comment_id", comment.ID,
		"task_id", taskID,
		"author_id", authorID)

	return &CommentWithAuthor{Comment: comment, Author: author}, nil
}

// AddAttachment implements TaskService.AddAttachment.
func (s *TaskServiceImpl) AddAttachment(
	ctx context.Context,
	taskID, uploaderID uuid.UUID,
	filename string,
	r io.Reader,
) (*AttachmentWithUploader, error) {
	if r == nil {
		return nil, ErrMissingFile
	}

	if _, err := s.taskStore.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	key, size, err := s.fileStore.Save(ctx, filename, r)
	if err != nil {
		s.logger.Error("failed to store attachment file",
			"error", err,
			"task_id", taskID,
			"filename", filename)
		return nil, fmt.Errorf("failed to store attachment file: %w", err)
	}

	attachment, err := domain.NewAttachment(taskID, uploaderID, key, filename, size)
	if err != nil {
		_ = s.fileStore.Remove(ctx, key)
		return nil, err
	}

	if err := s.attachmentStore.Create(ctx, attachment); err != nil {
		// Don't leave orphaned bytes behind a failed record insert.
		_ = s.fileStore.Remove(ctx, key)
		if !errors.Is(err, store.ErrInvalidEntity) {
			s.logger.Error("failed to create attachment record",
				"error", err,
				"task_id", taskID)
		}
		return nil, err
	}

	uploader, err := s.userStore.GetByID(ctx, uploaderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("attachment added",
		"attachment_id", attachment.ID,
		"task_id", taskID,
		"filename", filename,
		"file_size", size)

	return &AttachmentWithUploader{Attachment: attachment, Uploader: uploader}, nil
}

// OpenAttachment implements TaskService.OpenAttachment.
func (s *TaskServiceImpl) OpenAttachment(
	ctx context.Context,
	attachmentID uuid.UUID,
) (*domain.Attachment, io.ReadCloser, error) {
	attachment, err := s.attachmentStore.GetByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.fileStore.Open(ctx, attachment.FilePath)
	if err != nil {
		s.logger.Error("failed to open attachment file",
			"error", err,
			"attachment_id", attachmentID)
		return nil, nil, fmt.Errorf("failed to open attachment file: %w", err)
	}

	return attachment, rc, nil
}

// loadRelations joins categories, users, comments, and attachments onto the
// given tasks in batched queries. History is loaded only for detail reads.
func (s *TaskServiceImpl) loadRelations(
	ctx context.Context,
	tasks []*domain.Task,
	withHistory bool,
) ([]*TaskWithRelations, error) {
	taskIDs := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
	}

	commentsByTask, err := s.commentStore.ListByTasks(ctx, taskIDs)
	if err != nil {
		s.logger.Error("failed to load comments", "error", err)
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	attachmentsByTask, err := s.attachmentStore.ListByTasks(ctx, taskIDs)
	if err != nil {
		s.logger.Error("failed to load attachments", "error", err)
		return nil, fmt.Errorf("failed to load attachments: %w", err)
	}

	historyByTask := make(map[uuid.UUID][]*domain.TaskHistory)
	if withHistory {
		for _, task := range tasks {
			records, err := s.historyStore.ListByTask(ctx, task.ID)
			if err != nil {
				s.logger.Error("failed to load task history",
					"error", err,
					"task_id", task.ID)
				return nil, fmt.Errorf("failed to load task history: %w", err)
			}
			historyByTask[task.ID] = records
		}
	}

	// One batched lookup covers assignees, creators, comment authors,
	// attachment uploaders, and history actors.
	userIDSet := make(map[uuid.UUID]struct{})
	for _, task := range tasks {
		userIDSet[task.AssignedTo] = struct{}{}
		userIDSet[task.CreatedBy] = struct{}{}
	}
	for _, comments := range commentsByTask {
		for _, comment := range comments {
			userIDSet[comment.AuthorID] = struct{}{}
		}
	}
	for _, attachments := range attachmentsByTask {
		for _, attachment := range attachments {
			userIDSet[attachment.UploadedBy] = struct{}{}
		}
	}
	for _, records := range historyByTask {
		for _, record := range records {
			userIDSet[record.ChangedBy] = struct{}{}
		}
	}

	userIDs := make([]uuid.UUID, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}

	users, err := s.userStore.GetByIDs(ctx, userIDs)
	if err != nil {
		s.logger.Error("failed to load related users", "error", err)
		return nil, fmt.Errorf("failed to load related users: %w", err)
	}

	categories := make(map[uuid.UUID]*domain.Category)
	for _, id := range collectCategoryIDs(tasks) {
		if _, ok := categories[id]; ok {
			continue
		}
		category, err := s.categoryStore.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrCategoryNotFound) {
				continue
			}
			s.logger.Error("failed to load category",
				"error", err,
				"category_id", id)
			return nil, fmt.Errorf("failed to load category: %w", err)
		}
		categories[id] = category
	}

	result := make([]*TaskWithRelations, 0, len(tasks))
	for _, task := range tasks {
		related := &TaskWithRelations{
			Task:     task,
			Assignee: users[task.AssignedTo],
			Creator:  users[task.CreatedBy],
		}
		if task.CategoryID != nil {
			related.Category = categories[*task.CategoryID]
		}
		for _, comment := range commentsByTask[task.ID] {
			related.Comments = append(related.Comments, CommentWithAuthor{
				Comment: comment,
				Author:  users[comment.AuthorID],
			})
		}
		for _, attachment := range attachmentsByTask[task.ID] {
			related.Attachments = append(related.Attachments, AttachmentWithUploader{
				Attachment: attachment,
				Uploader:   users[attachment.UploadedBy],
			})
		}
		for _, record := range historyByTask[task.ID] {
			related.History = append(related.History, HistoryWithActor{
				History: record,
				Actor:   users[record.ChangedBy],
			})
		}
		result = append(result, related)
	}

	return result, nil
}

// applyTaskUpdate copies the supplied fields onto the task.
func applyTaskUpdate(task *domain.Task, input UpdateTaskInput) {
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ClearCategory {
		task.CategoryID = nil
	} else if input.CategoryID != nil {
		task.CategoryID = input.CategoryID
	}
	if input.AssignedTo != nil {
		task.AssignedTo = *input.AssignedTo
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = input.EstimatedHours
	}
	if input.ActualHours != nil {
		task.ActualHours = input.ActualHours
	}
}

// fieldChange is one audited difference between two task snapshots.
type fieldChange struct {
	field    string
	oldValue string
	newValue string
}

// diffTaskFields compares the audited fields of two task snapshots and
// returns one change per field that differs.
func diffTaskFields(before, after *domain.Task) []fieldChange {
	var changes []fieldChange

	add := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, fieldChange{field: field, oldValue: oldValue, newValue: newValue})
		}
	}

	add("title", before.Title, after.Title)
	add("description", before.Description, after.Description)
	add("status", string(before.Status), string(after.Status))
	add("priority", string(before.Priority), string(after.Priority))
	add("category", uuidPtrString(before.CategoryID), uuidPtrString(after.CategoryID))
	add("assigned_to", before.AssignedTo.String(), after.AssignedTo.String())
	add("due_date", timePtrString(before.DueDate), timePtrString(after.DueDate))
	add("estimated_hours", intPtrString(before.EstimatedHours), intPtrString(after.EstimatedHours))
	add("actual_hours", intPtrString(before.ActualHours), intPtrString(after.ActualHours))

	return changes
}

func uuidPtrString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func timePtrString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func intPtrString(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// collectCategoryIDs returns the distinct category IDs referenced by the
// given tasks.
func collectCategoryIDs(tasks []*domain.Task) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, task := range tasks {
		if task.CategoryID == nil {
			continue
		}
		if _, ok := seen[*task.CategoryID]; ok {
			continue
		}
		seen[*task.CategoryID] = struct{}{}
		ids = append(ids, *task.CategoryID)
	}
	return ids
}
