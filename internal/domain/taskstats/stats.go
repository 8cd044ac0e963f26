package taskstats

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// UncategorizedKey is the tasks_by_category bucket for tasks without a
// category reference.
const UncategorizedKey = "Uncategorized"

// Stats is a read-time snapshot summary over a task set. Nothing here is
// persisted; every value is recomputed per request.
type Stats struct {
	TotalTasks            int                             `json:"total_tasks"`
	PendingTasks          int                             `json:"pending_tasks"`
	InProgressTasks       int                             `json:"in_progress_tasks"`
	CompletedTasks        int                             `json:"completed_tasks"`
	OverdueTasks          int                             `json:"overdue_tasks"`
	TasksByPriority       map[domain.TaskPriority]int     `json:"tasks_by_priority"`
	TasksByCategory       map[string]int                  `json:"tasks_by_category"`
	CompletionRate        float64                         `json:"completion_rate"`
	AverageCompletionTime float64                         `json:"average_completion_time"`
}

// Compute aggregates the given task set at the supplied instant.
// categoryNames maps category IDs to display names for the per-category
// buckets; tasks whose category is unset or unknown count under
// UncategorizedKey.
//
// Every numeric output degrades to 0 when its subset or denominator is
// empty; no input is rejected.
func Compute(tasks []*domain.Task, categoryNames map[uuid.UUID]string, now time.Time) Stats {
	stats := Stats{
		TotalTasks:      len(tasks),
		TasksByPriority: make(map[domain.TaskPriority]int),
		TasksByCategory: make(map[string]int),
	}

	var completionTotal time.Duration
	var completionCount int

	for _, task := range tasks {
		switch task.Status {
		case domain.TaskStatusPending:
			stats.PendingTasks++
		case domain.TaskStatusInProgress:
			stats.InProgressTasks++
		case domain.TaskStatusCompleted:
			stats.CompletedTasks++
		}

		if task.IsOverdue(now) {
			stats.OverdueTasks++
		}

		// Only priorities that occur appear as keys.
		stats.TasksByPriority[task.Priority]++

		categoryKey := UncategorizedKey
		if task.CategoryID != nil {
			if name, ok := categoryNames[*task.CategoryID]; ok && name != "" {
				categoryKey = name
			}
		}
		stats.TasksByCategory[categoryKey]++

		if task.Status == domain.TaskStatusCompleted && task.CompletedAt != nil {
			completionTotal += task.CompletedAt.Sub(task.CreatedAt)
			completionCount++
		}
	}

	if stats.TotalTasks > 0 {
		stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
	}

	if completionCount > 0 {
		mean := completionTotal / time.Duration(completionCount)
		// Whole days elapsed, truncated.
		stats.AverageCompletionTime = float64(int(mean.Hours() / 24))
	}

	return stats
}
