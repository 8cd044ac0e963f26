package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Attachment
var (
	ErrEmptyAttachmentID       = errors.New("attachment ID cannot be empty")
	ErrEmptyAttachmentTaskID   = errors.New("attachment task ID cannot be empty")
	ErrEmptyAttachmentUploader = errors.New("attachment uploader cannot be empty")
	ErrEmptyAttachmentPath     = errors.New("attachment file path cannot be empty")
	ErrEmptyAttachmentFilename = errors.New("attachment filename cannot be empty")
	ErrNegativeAttachmentSize  = errors.New("attachment file size cannot be negative")
)

// Attachment references a stored file uploaded against a task. FilePath is
// the key under which the file store holds the bytes; Filename and FileSize
// are derived from the upload.
type Attachment struct {
	ID         uuid.UUID `json:"id"`
	TaskID     uuid.UUID `json:"task_id"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	FilePath   string    `json:"-"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewAttachment creates a new Attachment record for a stored file.
// Returns an error if validation fails.
func NewAttachment(taskID, uploadedBy uuid.UUID, filePath, filename string, fileSize int64) (*Attachment, error) {
	attachment := &Attachment{
		ID:         uuid.New(),
		TaskID:     taskID,
		UploadedBy: uploadedBy,
		FilePath:   filePath,
		Filename:   filename,
		FileSize:   fileSize,
		UploadedAt: time.Now().UTC(),
	}

	if err := attachment.Validate(); err != nil {
		return nil, err
	}

	return attachment, nil
}

// Validate checks if the Attachment has valid data.
// Returns an error if any field fails validation.
func (a *Attachment) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAttachmentID
	}

	if a.TaskID == uuid.Nil {
		return ErrEmptyAttachmentTaskID
	}

	if a.UploadedBy == uuid.Nil {
		return ErrEmptyAttachmentUploader
	}

	if a.FilePath == "" {
		return ErrEmptyAttachmentPath
	}

	if a.Filename == "" {
		return ErrEmptyAttachmentFilename
	}

	if a.FileSize < 0 {
		return ErrNegativeAttachmentSize
	}

	return nil
}
