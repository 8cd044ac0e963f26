package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is the display color assigned when none is provided.
const DefaultCategoryColor = "#007bff"

// Common validation errors for Category
var (
	ErrEmptyCategoryID      = errors.New("category ID cannot be empty")
	ErrEmptyCategoryName    = errors.New("category name cannot be empty")
	ErrCategoryNameTooLong  = errors.New("category name must be at most 100 characters long")
	ErrInvalidCategoryColor = errors.New("category color must be a hex color like #007bff")
)

// Category groups tasks for display. Deleting a category does not delete its
// tasks; their category reference is cleared instead.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCategory creates a new Category with the given name, description, and
// display color. An empty color falls back to DefaultCategoryColor.
// Returns an error if validation fails.
func NewCategory(name, description, color string) (*Category, error) {
	if color == "" {
		color = DefaultCategoryColor
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Color:       color,
		CreatedAt:   time.Now().UTC(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
// Returns an error if any field fails validation.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}

	if c.Name == "" {
		return ErrEmptyCategoryName
	}

	if len(c.Name) > 100 {
		return ErrCategoryNameTooLong
	}

	if !validateHexColor(c.Color) {
		return ErrInvalidCategoryColor
	}

	return nil
}

// validateHexColor accepts colors of the form "#rgb" or "#rrggbb".
func validateHexColor(color string) bool {
	if !strings.HasPrefix(color, "#") {
		return false
	}
	digits := color[1:]
	if len(digits) != 3 && len(digits) != 6 {
		return false
	}
	for _, r := range digits {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
