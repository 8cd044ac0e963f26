package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskwell/taskwell-api/internal/api/middleware"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/domain/taskstats"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/store"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// maxAttachmentSize caps multipart uploads at 10 MiB.
	maxAttachmentSize = 10 << 20
)

// TaskHandler handles task-related API requests, including the comment and
// attachment sub-resources.
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
	now         func() time.Time
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
		now:         time.Now,
	}
}

// WithNow replaces the handler's clock, fixing "now" for deterministic
// overdue evaluation in tests.
func (h *TaskHandler) WithNow(now func() time.Time) *TaskHandler {
	h.now = now
	return h
}

// ListTasks handles GET /api/tasks.
// Supported query parameters: status, priority, category, assigned_to,
// search, overdue, page, page_size.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	h.respondTaskPage(w, r, filter)
}

// MyTasks handles GET /api/tasks/my_tasks.
// It lists the tasks assigned to the authenticated user, honoring the same
// remaining filters as the main listing.
func (h *TaskHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	filter.AssignedTo = &userID

	h.respondTaskPage(w, r, filter)
}

// TaskStats handles GET /api/tasks/stats.
// The snapshot is computed over every task matching the filter, not just the
// current page.
func (h *TaskHandler) TaskStats(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	stats, err := h.taskService.Stats(r.Context(), filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to compute task statistics", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	rel, err := h.taskService.Get(r.Context(), taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskDetailResponse(rel, h.now().UTC()))
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req TaskWriteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	rel, err := h.taskService.Create(r.Context(), service.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		AssignedTo:     req.AssignedToID,
		Priority:       domain.TaskPriority(req.Priority),
		Status:         domain.TaskStatus(req.Status),
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskDetailResponse(rel, h.now().UTC()))
}

// UpdateTask handles PUT /api/tasks/{id}.
// A full update: every writable field is replaced, so an absent category or
// due date clears the stored value.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	var req TaskWriteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.UpdateTaskInput{
		Title:          &req.Title,
		Description:    &req.Description,
		AssignedTo:     &req.AssignedToID,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	if req.CategoryID != nil {
		input.CategoryID = req.CategoryID
	} else {
		input.ClearCategory = true
	}
	if req.DueDate != nil {
		input.DueDate = req.DueDate
	} else {
		input.ClearDueDate = true
	}
	if req.Priority != "" {
		priority := domain.TaskPriority(req.Priority)
		input.Priority = &priority
	}
	if req.Status != "" {
		status := domain.TaskStatus(req.Status)
		input.Status = &status
	}

	rel, err := h.taskService.Update(r.Context(), taskID, input, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskDetailResponse(rel, h.now().UTC()))
}

// PatchTask handles PATCH /api/tasks/{id}.
// A partial update: absent fields keep their stored values.
func (h *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	var req TaskPatchRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		AssignedTo:     req.AssignedToID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}

	rel, err := h.taskService.Update(r.Context(), taskID, input, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskDetailResponse(rel, h.now().UTC()))
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddComment handles POST /api/tasks/{id}/comments.
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	var req CommentCreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	comment, err := h.taskService.AddComment(r.Context(), taskID, userID, req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewCommentResponse(*comment))
}

// AddAttachment handles POST /api/tasks/{id}/attachments.
// Expects a multipart form with the file under the "file" field; the stored
// filename and byte size are derived from the upload.
func (h *TaskHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, ok := h.parseTaskID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	attachment, err := h.taskService.AddAttachment(r.Context(), taskID, userID, header.Filename, file)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewAttachmentResponse(*attachment))
}

// DownloadAttachment handles GET /api/attachments/{id}. It streams the
// stored file with the original filename.
func (h *TaskHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	attachmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Attachment not found")
		return
	}

	attachment, contents, err := h.taskService.OpenAttachment(r.Context(), attachmentID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	defer func() {
		_ = contents.Close()
	}()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(attachment.FileSize, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, contents); err != nil {
		// Headers are already out; all we can do is log.
		logger.FromContext(r.Context()).Error("failed to stream attachment", "error", err)
	}
}

// respondTaskPage runs the paginated listing for the given filter and writes
// the page envelope.
func (h *TaskHandler) respondTaskPage(w http.ResponseWriter, r *http.Request, filter taskstats.Filter) {
	page := parsePage(r)

	tasks, total, err := h.taskService.List(r.Context(), filter, page)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	now := h.now().UTC()
	results := make([]TaskListResponse, 0, len(tasks))
	for _, rel := range tasks {
		results = append(results, NewTaskListResponse(rel, now))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskPageResponse{
		Count:    total,
		Page:     page.Number,
		PageSize: page.Size,
		Results:  results,
	})
}

// parseFilter reads the filter query parameters. On an invalid value it
// writes a 400 response and reports false.
func (h *TaskHandler) parseFilter(w http.ResponseWriter, r *http.Request) (taskstats.Filter, bool) {
	var filter taskstats.Filter
	query := r.URL.Query()

	if status := query.Get("status"); status != "" {
		if !domain.IsValidTaskStatus(domain.TaskStatus(status)) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status filter")
			return filter, false
		}
		filter.Status = domain.TaskStatus(status)
	}

	if priority := query.Get("priority"); priority != "" {
		if !domain.IsValidTaskPriority(domain.TaskPriority(priority)) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid priority filter")
			return filter, false
		}
		filter.Priority = domain.TaskPriority(priority)
	}

	if category := query.Get("category"); category != "" {
		categoryID, err := uuid.Parse(category)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category filter")
			return filter, false
		}
		filter.CategoryID = &categoryID
	}

	if assignedTo := query.Get("assigned_to"); assignedTo != "" {
		assigneeID, err := uuid.Parse(assignedTo)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid assigned_to filter")
			return filter, false
		}
		filter.AssignedTo = &assigneeID
	}

	filter.Search = query.Get("search")
	filter.Overdue = query.Get("overdue") == "true"

	return filter, true
}

// parseTaskID reads the {id} URL parameter. On a malformed ID it writes a
// 404 response and reports false: an unparseable ID can't name a task.
func (h *TaskHandler) parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return uuid.Nil, false
	}
	return taskID, true
}

// parsePage reads the page and page_size query parameters, clamping them to
// sane bounds.
func parsePage(r *http.Request) store.Page {
	page := store.Page{Number: 1, Size: defaultPageSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Number = n
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			if n > maxPageSize {
				n = maxPageSize
			}
			page.Size = n
		}
	}

	return page
}
