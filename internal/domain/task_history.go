package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for TaskHistory
var (
	ErrEmptyHistoryID     = errors.New("history ID cannot be empty")
	ErrEmptyHistoryTaskID = errors.New("history task ID cannot be empty")
	ErrEmptyHistoryActor  = errors.New("history actor cannot be empty")
	ErrEmptyHistoryField  = errors.New("history field name cannot be empty")
)

// TaskHistory is one append-only audit record of a single field change on a
// task: which field, its old and new values, who changed it, and when.
type TaskHistory struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	ChangedBy uuid.UUID `json:"changed_by"`
	FieldName string    `json:"field_name"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewTaskHistory creates an audit record for a single field change.
// Returns an error if validation fails.
func NewTaskHistory(taskID, changedBy uuid.UUID, fieldName, oldValue, newValue string) (*TaskHistory, error) {
	history := &TaskHistory{
		ID:        uuid.New(),
		TaskID:    taskID,
		ChangedBy: changedBy,
		FieldName: fieldName,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedAt: time.Now().UTC(),
	}

	if err := history.Validate(); err != nil {
		return nil, err
	}

	return history, nil
}

// Validate checks if the TaskHistory has valid data.
// Returns an error if any field fails validation.
func (h *TaskHistory) Validate() error {
	if h.ID == uuid.Nil {
		return ErrEmptyHistoryID
	}

	if h.TaskID == uuid.Nil {
		return ErrEmptyHistoryTaskID
	}

	if h.ChangedBy == uuid.Nil {
		return ErrEmptyHistoryActor
	}

	if h.FieldName == "" {
		return ErrEmptyHistoryField
	}

	return nil
}
