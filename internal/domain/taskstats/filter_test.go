package taskstats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

func TestFilterIsZero(t *testing.T) {
	t.Parallel()

	if !(Filter{}).IsZero() {
		t.Error("Expected zero filter to report IsZero")
	}

	categoryID := uuid.New()
	filters := []Filter{
		{Status: domain.TaskStatusPending},
		{Priority: domain.TaskPriorityHigh},
		{CategoryID: &categoryID},
		{AssignedTo: &categoryID},
		{Search: "report"},
		{Overdue: true},
	}
	for i, f := range filters {
		if f.IsZero() {
			t.Errorf("Filter %d: expected non-zero", i)
		}
	}
}

func TestFilterMatches(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	categoryID := uuid.New()
	otherCategory := uuid.New()
	assignee := uuid.New()

	base := domain.Task{
		ID:          uuid.New(),
		Title:       "Fix the Login page",
		Description: "The login form rejects valid credentials",
		CategoryID:  &categoryID,
		AssignedTo:  assignee,
		CreatedBy:   uuid.New(),
		Priority:    domain.TaskPriorityHigh,
		Status:      domain.TaskStatusPending,
	}

	tests := []struct {
		name   string
		filter Filter
		mutate func(task *domain.Task)
		want   bool
	}{
		{
			name:   "zero filter matches everything",
			filter: Filter{},
			want:   true,
		},
		{
			name:   "status match",
			filter: Filter{Status: domain.TaskStatusPending},
			want:   true,
		},
		{
			name:   "status mismatch",
			filter: Filter{Status: domain.TaskStatusCompleted},
			want:   false,
		},
		{
			name:   "priority match",
			filter: Filter{Priority: domain.TaskPriorityHigh},
			want:   true,
		},
		{
			name:   "priority mismatch",
			filter: Filter{Priority: domain.TaskPriorityLow},
			want:   false,
		},
		{
			name:   "category match",
			filter: Filter{CategoryID: &categoryID},
			want:   true,
		},
		{
			name:   "category mismatch",
			filter: Filter{CategoryID: &otherCategory},
			want:   false,
		},
		{
			name:   "category filter against uncategorized task",
			filter: Filter{CategoryID: &categoryID},
			mutate: func(task *domain.Task) { task.CategoryID = nil },
			want:   false,
		},
		{
			name:   "assignee match",
			filter: Filter{AssignedTo: &assignee},
			want:   true,
		},
		{
			name:   "search matches title case-insensitively",
			filter: Filter{Search: "login"},
			want:   true,
		},
		{
			name:   "search matches description",
			filter: Filter{Search: "credentials"},
			want:   true,
		},
		{
			name:   "search miss",
			filter: Filter{Search: "billing"},
			want:   false,
		},
		{
			name:   "overdue with past due date",
			filter: Filter{Overdue: true},
			mutate: func(task *domain.Task) { task.DueDate = &past },
			want:   true,
		},
		{
			name:   "overdue with future due date",
			filter: Filter{Overdue: true},
			mutate: func(task *domain.Task) { task.DueDate = &future },
			want:   false,
		},
		{
			name:   "overdue without due date",
			filter: Filter{Overdue: true},
			want:   false,
		},
		{
			name:   "overdue excludes completed tasks",
			filter: Filter{Overdue: true},
			mutate: func(task *domain.Task) {
				task.DueDate = &past
				task.Status = domain.TaskStatusCompleted
			},
			want: false,
		},
		{
			name: "criteria combine with AND",
			filter: Filter{
				Status:   domain.TaskStatusPending,
				Priority: domain.TaskPriorityLow,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := base
			if tt.mutate != nil {
				tt.mutate(&task)
			}
			if got := tt.filter.Matches(&task, now); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}

	if (Filter{}).Matches(nil, now) {
		t.Error("Expected nil task to never match")
	}
}

func TestFilterApply(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	pending := &domain.Task{ID: uuid.New(), Title: "a", AssignedTo: uuid.New(), Status: domain.TaskStatusPending, Priority: domain.TaskPriorityLow}
	completed := &domain.Task{ID: uuid.New(), Title: "b", AssignedTo: uuid.New(), Status: domain.TaskStatusCompleted, Priority: domain.TaskPriorityLow}

	got := Filter{Status: domain.TaskStatusPending}.Apply([]*domain.Task{pending, completed}, now)
	if len(got) != 1 || got[0] != pending {
		t.Errorf("Expected only the pending task, got %d tasks", len(got))
	}

	// An empty result is a valid outcome.
	got = Filter{Status: domain.TaskStatusCancelled}.Apply([]*domain.Task{pending, completed}, now)
	if len(got) != 0 {
		t.Errorf("Expected no tasks, got %d", len(got))
	}
}
