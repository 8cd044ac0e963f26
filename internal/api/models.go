package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/service"
)

// RegisterRequest defines the payload for user registration.
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required,max=150"`
	Email           string `json:"email"            validate:"required,email"`
	FirstName       string `json:"first_name"       validate:"max=150"`
	LastName        string `json:"last_name"        validate:"max=150"`
	Password        string `json:"password"         validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// LoginRequest defines the payload for user login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token for the refresh and logout
// endpoints.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// ProfileUpdateRequest defines the payload for profile updates.
type ProfileUpdateRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name"  validate:"max=150"`
}

// ChangePasswordRequest defines the payload for password changes.
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"         validate:"required"`
	NewPassword        string `json:"new_password"         validate:"required,min=8,max=72"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

// PasswordResetRequest defines the payload for password reset requests.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserResponse is the representation of a user in API responses.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FullName   string    `json:"full_name"`
	IsActive   bool      `json:"is_active"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

// ProfileResponse extends UserResponse with the task counts shown on the
// current-user endpoint.
type ProfileResponse struct {
	UserResponse
	TasksAssigned int `json:"tasks_assigned"`
	TasksCreated  int `json:"tasks_created"`
}

// TokenResponse carries a freshly issued token pair plus a summary of the
// authenticated user.
type TokenResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    *UserResponse `json:"user,omitempty"`
}

// MessageResponse carries a plain informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskWriteRequest defines the payload for task creation and full updates.
// References are raw identifiers, not nested objects.
type TaskWriteRequest struct {
	Title          string     `json:"title"           validate:"required,max=200"`
	Description    string     `json:"description"`
	CategoryID     *uuid.UUID `json:"category_id"`
	AssignedToID   uuid.UUID  `json:"assigned_to_id"  validate:"required"`
	Priority       string     `json:"priority"        validate:"omitempty,oneof=low medium high urgent"`
	Status         string     `json:"status"          validate:"omitempty,oneof=pending in_progress completed cancelled"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *int       `json:"estimated_hours" validate:"omitempty,min=0"`
	ActualHours    *int       `json:"actual_hours"    validate:"omitempty,min=0"`
}

// TaskPatchRequest defines the payload for partial task updates. Absent
// fields are left unchanged.
type TaskPatchRequest struct {
	Title          *string    `json:"title"           validate:"omitempty,max=200"`
	Description    *string    `json:"description"`
	CategoryID     *uuid.UUID `json:"category_id"`
	AssignedToID   *uuid.UUID `json:"assigned_to_id"`
	Priority       *string    `json:"priority"        validate:"omitempty,oneof=low medium high urgent"`
	Status         *string    `json:"status"          validate:"omitempty,oneof=pending in_progress completed cancelled"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *int       `json:"estimated_hours" validate:"omitempty,min=0"`
	ActualHours    *int       `json:"actual_hours"    validate:"omitempty,min=0"`
}

// CommentCreateRequest defines the payload for adding a comment to a task.
type CommentCreateRequest struct {
	Content string `json:"content" validate:"required"`
}

// CategoryRequest defines the payload for category creation and updates.
type CategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description"`
	Color       string `json:"color"       validate:"omitempty,hexcolor"`
}

// CategoryResponse is the representation of a category in API responses.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	TaskCount   int       `json:"task_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommentResponse is the representation of a comment in API responses.
type CommentResponse struct {
	ID        uuid.UUID     `json:"id"`
	Author    *UserResponse `json:"author"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// AttachmentResponse is the representation of an attachment in API
// responses. The storage path stays server-side.
type AttachmentResponse struct {
	ID         uuid.UUID     `json:"id"`
	Filename   string        `json:"filename"`
	FileSize   int64         `json:"file_size"`
	UploadedBy *UserResponse `json:"uploaded_by"`
	UploadedAt time.Time     `json:"uploaded_at"`
}

// HistoryResponse is the representation of one audit record in API
// responses.
type HistoryResponse struct {
	ID        uuid.UUID     `json:"id"`
	FieldName string        `json:"field_name"`
	OldValue  string        `json:"old_value"`
	NewValue  string        `json:"new_value"`
	ChangedBy *UserResponse `json:"changed_by"`
	ChangedAt time.Time     `json:"changed_at"`
}

// TaskListResponse is the reduced task representation used on list
// endpoints: no description and no nested collections.
type TaskListResponse struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Category     *CategoryResponse `json:"category"`
	AssignedTo   *UserResponse     `json:"assigned_to"`
	Priority     string            `json:"priority"`
	Status       string            `json:"status"`
	DueDate      *time.Time        `json:"due_date"`
	IsOverdue    bool              `json:"is_overdue"`
	CommentCount int               `json:"comment_count"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// TaskDetailResponse is the full task representation used on detail
// endpoints, with nested relations and audit history.
type TaskDetailResponse struct {
	ID             uuid.UUID            `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Category       *CategoryResponse    `json:"category"`
	AssignedTo     *UserResponse        `json:"assigned_to"`
	CreatedBy      *UserResponse        `json:"created_by"`
	Priority       string               `json:"priority"`
	Status         string               `json:"status"`
	DueDate        *time.Time           `json:"due_date"`
	EstimatedHours *int                 `json:"estimated_hours"`
	ActualHours    *int                 `json:"actual_hours"`
	IsOverdue      bool                 `json:"is_overdue"`
	Comments       []CommentResponse    `json:"comments"`
	Attachments    []AttachmentResponse `json:"attachments"`
	History        []HistoryResponse    `json:"history"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	CompletedAt    *time.Time           `json:"completed_at"`
}

// TaskPageResponse is the paginated envelope for task listings.
type TaskPageResponse struct {
	Count    int                `json:"count"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Results  []TaskListResponse `json:"results"`
}

// NewUserResponse builds the API representation of a user.
func NewUserResponse(user *domain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		FullName:   user.FullName(),
		IsActive:   user.IsActive,
		IsStaff:    user.IsStaff,
		DateJoined: user.DateJoined,
	}
}

// NewCategoryResponse builds the API representation of a category.
func NewCategoryResponse(category *domain.Category, taskCount int) *CategoryResponse {
	if category == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Color:       category.Color,
		TaskCount:   taskCount,
		CreatedAt:   category.CreatedAt,
	}
}

// NewCommentResponse builds the API representation of a comment.
func NewCommentResponse(c service.CommentWithAuthor) CommentResponse {
	return CommentResponse{
		ID:        c.Comment.ID,
		Author:    NewUserResponse(c.Author),
		Content:   c.Comment.Content,
		CreatedAt: c.Comment.CreatedAt,
		UpdatedAt: c.Comment.UpdatedAt,
	}
}

// NewAttachmentResponse builds the API representation of an attachment.
func NewAttachmentResponse(a service.AttachmentWithUploader) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.Attachment.ID,
		Filename:   a.Attachment.Filename,
		FileSize:   a.Attachment.FileSize,
		UploadedBy: NewUserResponse(a.Uploader),
		UploadedAt: a.Attachment.UploadedAt,
	}
}

// NewHistoryResponse builds the API representation of an audit record.
func NewHistoryResponse(h service.HistoryWithActor) HistoryResponse {
	return HistoryResponse{
		ID:        h.History.ID,
		FieldName: h.History.FieldName,
		OldValue:  h.History.OldValue,
		NewValue:  h.History.NewValue,
		ChangedBy: NewUserResponse(h.Actor),
		ChangedAt: h.History.ChangedAt,
	}
}

// NewTaskListResponse builds the reduced list representation of a task,
// evaluating overdue against the given instant. Nested categories carry no
// task count; only the category endpoints report it.
func NewTaskListResponse(rel *service.TaskWithRelations, now time.Time) TaskListResponse {
	task := rel.Task
	var category *CategoryResponse
	if rel.Category != nil {
		category = NewCategoryResponse(rel.Category, 0)
	}
	return TaskListResponse{
		ID:           task.ID,
		Title:        task.Title,
		Category:     category,
		AssignedTo:   NewUserResponse(rel.Assignee),
		Priority:     string(task.Priority),
		Status:       string(task.Status),
		DueDate:      task.DueDate,
		IsOverdue:    task.IsOverdue(now),
		CommentCount: len(rel.Comments),
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// NewTaskDetailResponse builds the full detail representation of a task,
// evaluating overdue against the given instant.
func NewTaskDetailResponse(rel *service.TaskWithRelations, now time.Time) TaskDetailResponse {
	task := rel.Task

	var category *CategoryResponse
	if rel.Category != nil {
		category = NewCategoryResponse(rel.Category, 0)
	}

	comments := make([]CommentResponse, 0, len(rel.Comments))
	for _, c := range rel.Comments {
		comments = append(comments, NewCommentResponse(c))
	}

	attachments := make([]AttachmentResponse, 0, len(rel.Attachments))
	for _, a := range rel.Attachments {
		attachments = append(attachments, NewAttachmentResponse(a))
	}

	history := make([]HistoryResponse, 0, len(rel.History))
	for _, h := range rel.History {
		history = append(history, NewHistoryResponse(h))
	}

	return TaskDetailResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Category:       category,
		AssignedTo:     NewUserResponse(rel.Assignee),
		CreatedBy:      NewUserResponse(rel.Creator),
		Priority:       string(task.Priority),
		Status:         string(task.Status),
		DueDate:        task.DueDate,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		IsOverdue:      task.IsOverdue(now),
		Comments:       comments,
		Attachments:    attachments,
		History:        history,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
		CompletedAt:    task.CompletedAt,
	}
}
