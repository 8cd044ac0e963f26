package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/service"
)

// CategoryHandler handles category-related API requests.
type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler with the given dependencies.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
	}
}

// ListCategories handles GET /api/categories.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list categories", err)
		return
	}

	results := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		results = append(results, *NewCategoryResponse(c.Category, c.TaskCount))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, results)
}

// GetCategory handles GET /api/categories/{id}.
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := h.parseCategoryID(w, r)
	if !ok {
		return
	}

	category, err := h.categoryService.Get(r.Context(), categoryID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCategoryResponse(category.Category, category.TaskCount))
}

// CreateCategory handles POST /api/categories.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	category, err := h.categoryService.Create(r.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewCategoryResponse(category.Category, category.TaskCount))
}

// UpdateCategory handles PUT /api/categories/{id}.
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := h.parseCategoryID(w, r)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	category, err := h.categoryService.Update(r.Context(), categoryID, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCategoryResponse(category.Category, category.TaskCount))
}

// DeleteCategory handles DELETE /api/categories/{id}.
// Tasks referencing the category are detached, not deleted.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := h.parseCategoryID(w, r)
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), categoryID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) parseCategoryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Category not found")
		return uuid.Nil, false
	}
	return categoryID, true
}
