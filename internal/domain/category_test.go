package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewCategory(t *testing.T) {
	t.Parallel()

	category, err := NewCategory("Work", "Office tasks", "#ff0000")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if category.Name != "Work" {
		t.Errorf("Expected name Work, got %s", category.Name)
	}
	if category.Color != "#ff0000" {
		t.Errorf("Expected color #ff0000, got %s", category.Color)
	}
	if category.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestNewCategoryDefaultColor(t *testing.T) {
	t.Parallel()

	category, err := NewCategory("Work", "", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.Color != DefaultCategoryColor {
		t.Errorf("Expected default color %s, got %s", DefaultCategoryColor, category.Color)
	}
}

func TestNewCategoryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		catName string
		color   string
		wantErr error
	}{
		{"empty name", "", "#ff0000", ErrEmptyCategoryName},
		{"name too long", strings.Repeat("x", 101), "#ff0000", ErrCategoryNameTooLong},
		{"color without hash", "Work", "ff0000", ErrInvalidCategoryColor},
		{"color wrong length", "Work", "#ff00", ErrInvalidCategoryColor},
		{"color non-hex digits", "Work", "#zzz999", ErrInvalidCategoryColor},
		{"named color", "Work", "red", ErrInvalidCategoryColor},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewCategory(tt.catName, "", tt.color)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCategoryValidateShortHexColor(t *testing.T) {
	t.Parallel()

	category, err := NewCategory("Work", "", "#F90")
	if err != nil {
		t.Fatalf("Expected #F90 to be accepted, got %v", err)
	}
	if category.Color != "#F90" {
		t.Errorf("Expected color #F90, got %s", category.Color)
	}
}
