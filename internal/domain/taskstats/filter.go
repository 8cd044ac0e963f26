package taskstats

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// Filter holds the optional criteria a task listing can be narrowed by.
// Absent criteria impose no restriction; supplied criteria combine with
// logical AND. The same filter definition drives both the SQL composition in
// the task store and the in-memory predicate below, so the two cannot drift.
type Filter struct {
	// Status restricts to tasks with exactly this status.
	Status domain.TaskStatus

	// Priority restricts to tasks with exactly this priority.
	Priority domain.TaskPriority

	// CategoryID restricts to tasks in this category.
	CategoryID *uuid.UUID

	// AssignedTo restricts to tasks assigned to this user.
	AssignedTo *uuid.UUID

	// Search restricts to tasks whose title or description contains this
	// string, case-insensitively.
	Search string

	// Overdue, when true, restricts to tasks whose due date has passed and
	// whose status is still pending or in_progress.
	Overdue bool
}

// IsZero reports whether no criteria are set.
func (f Filter) IsZero() bool {
	return f.Status == "" &&
		f.Priority == "" &&
		f.CategoryID == nil &&
		f.AssignedTo == nil &&
		f.Search == "" &&
		!f.Overdue
}

// Matches reports whether the task satisfies every supplied criterion at the
// given instant. It is pure: neither the filter nor the task is mutated.
func (f Filter) Matches(task *domain.Task, now time.Time) bool {
	if task == nil {
		return false
	}

	if f.Status != "" && task.Status != f.Status {
		return false
	}

	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}

	if f.CategoryID != nil {
		if task.CategoryID == nil || *task.CategoryID != *f.CategoryID {
			return false
		}
	}

	if f.AssignedTo != nil && task.AssignedTo != *f.AssignedTo {
		return false
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		title := strings.ToLower(task.Title)
		description := strings.ToLower(task.Description)
		if !strings.Contains(title, needle) && !strings.Contains(description, needle) {
			return false
		}
	}

	if f.Overdue {
		// The filter form of the overdue predicate: due date passed and the
		// task is still open. Agrees with Task.IsOverdue for pending and
		// in_progress tasks, which are the only open statuses.
		if task.DueDate == nil || !task.DueDate.Before(now) {
			return false
		}
		if task.Status != domain.TaskStatusPending && task.Status != domain.TaskStatusInProgress {
			return false
		}
	}

	return true
}

// Apply returns the subset of tasks matching the filter, preserving order.
// An empty result is a valid outcome, not an error.
func (f Filter) Apply(tasks []*domain.Task, now time.Time) []*domain.Task {
	matched := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if f.Matches(task, now) {
			matched = append(matched, task)
		}
	}
	return matched
}
