package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID         = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle      = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong    = errors.New("task title must be at most 200 characters long")
	ErrEmptyTaskAssignee   = errors.New("task assignee cannot be empty")
	ErrEmptyTaskCreator    = errors.New("task creator cannot be empty")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrNegativeTaskHours   = errors.New("task hours cannot be negative")
)

// Task represents a unit of work with a creator, an assignee, a status, and
// a priority. The category reference is optional.
type Task struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	CategoryID     *uuid.UUID   `json:"category_id,omitempty"`
	AssignedTo     uuid.UUID    `json:"assigned_to"`
	CreatedBy      uuid.UUID    `json:"created_by"`
	Priority       TaskPriority `json:"priority"`
	Status         TaskStatus   `json:"status"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	EstimatedHours *int         `json:"estimated_hours,omitempty"`
	ActualHours    *int         `json:"actual_hours,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
}

// NewTask creates a new Task assigned to assignedTo and created by createdBy,
// with the default medium priority and pending status.
// Returns an error if validation fails.
func NewTask(title, description string, assignedTo, createdBy uuid.UUID) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		AssignedTo:  assignedTo,
		CreatedBy:   createdBy,
		Priority:    TaskPriorityMedium,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Title) > 200 {
		return ErrTaskTitleTooLong
	}

	if t.AssignedTo == uuid.Nil {
		return ErrEmptyTaskAssignee
	}

	if t.CreatedBy == uuid.Nil {
		return ErrEmptyTaskCreator
	}

	if !IsValidTaskPriority(t.Priority) {
		return ErrInvalidTaskPriority
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if t.EstimatedHours != nil && *t.EstimatedHours < 0 {
		return ErrNegativeTaskHours
	}

	if t.ActualHours != nil && *t.ActualHours < 0 {
		return ErrNegativeTaskHours
	}

	return nil
}

// ApplyStatusTimestamps derives CompletedAt from Status so that CompletedAt
// is set exactly when the task is completed. It must be called with the same
// write that changes Status, so the persisted record never carries a status
// and completion timestamp that disagree.
func (t *Task) ApplyStatusTimestamps(now time.Time) {
	if t.Status == TaskStatusCompleted {
		if t.CompletedAt == nil {
			completed := now.UTC()
			t.CompletedAt = &completed
		}
	} else {
		t.CompletedAt = nil
	}
}

// IsOverdue reports whether the task is past its due date while still open.
// Tasks without a due date, and completed or cancelled tasks, are never
// overdue. Evaluated at read time against the supplied instant; the overdue
// list filter and the stats aggregator share this definition.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled {
		return false
	}
	return now.After(*t.DueDate)
}

// IsValidTaskPriority checks if the given priority is a valid TaskPriority.
func IsValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}
