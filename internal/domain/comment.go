package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Comment
var (
	ErrEmptyCommentID      = errors.New("comment ID cannot be empty")
	ErrEmptyCommentTaskID  = errors.New("comment task ID cannot be empty")
	ErrEmptyCommentAuthor  = errors.New("comment author cannot be empty")
	ErrEmptyCommentContent = errors.New("comment content cannot be empty")
)

// Comment is a free-text note attached to exactly one task by one user.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewComment creates a new Comment on the given task, authored by authorID.
// Returns an error if validation fails.
func NewComment(taskID, authorID uuid.UUID, content string) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
// Returns an error if any field fails validation.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCommentID
	}

	if c.TaskID == uuid.Nil {
		return ErrEmptyCommentTaskID
	}

	if c.AuthorID == uuid.Nil {
		return ErrEmptyCommentAuthor
	}

	if c.Content == "" {
		return ErrEmptyCommentContent
	}

	return nil
}
