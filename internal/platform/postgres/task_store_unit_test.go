package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/domain/taskstats"
)

func TestBuildTaskFilter(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	categoryID := uuid.New()
	assigneeID := uuid.New()

	t.Run("zero filter produces no clause", func(t *testing.T) {
		t.Parallel()

		clause, args := buildTaskFilter(taskstats.Filter{}, now)

		assert.Equal(t, "", clause)
		assert.Nil(t, args)
	})

	t.Run("status only", func(t *testing.T) {
		t.Parallel()

		clause, args := buildTaskFilter(taskstats.Filter{Status: domain.TaskStatusPending}, now)

		assert.Equal(t, " WHERE status = $1", clause)
		require.Len(t, args, 1)
		assert.Equal(t, domain.TaskStatusPending, args[0])
	})

	t.Run("search matches title or description", func(t *testing.T) {
		t.Parallel()

		clause, args := buildTaskFilter(taskstats.Filter{Search: "report"}, now)

		assert.Equal(t, " WHERE (title ILIKE $1 OR description ILIKE $1)", clause)
		require.Len(t, args, 1)
		assert.Equal(t, "%report%", args[0])
	})

	t.Run("search escapes LIKE metacharacters", func(t *testing.T) {
		t.Parallel()

		_, args := buildTaskFilter(taskstats.Filter{Search: `100%_done\`}, now)

		require.Len(t, args, 1)
		assert.Equal(t, `%100\%\_done\\%`, args[0])
	})

	t.Run("overdue condition", func(t *testing.T) {
		t.Parallel()

		clause, args := buildTaskFilter(taskstats.Filter{Overdue: true}, now)

		assert.Equal(t,
			" WHERE due_date IS NOT NULL AND due_date < $1 AND status IN ('pending', 'in_progress')",
			clause)
		require.Len(t, args, 1)
		assert.Equal(t, now, args[0])
	})

	t.Run("all conditions combine with AND in order", func(t *testing.T) {
		t.Parallel()

		filter := taskstats.Filter{
			Status:     domain.TaskStatusInProgress,
			Priority:   domain.TaskPriorityHigh,
			CategoryID: &categoryID,
			AssignedTo: &assigneeID,
			Search:     "deploy",
			Overdue:    true,
		}

		clause, args := buildTaskFilter(filter, now)

		assert.Equal(t,
			" WHERE status = $1 AND priority = $2 AND category_id = $3 AND assigned_to = $4"+
				" AND (title ILIKE $5 OR description ILIKE $5)"+
				" AND due_date IS NOT NULL AND due_date < $6 AND status IN ('pending', 'in_progress')",
			clause)
		require.Len(t, args, 6)
		assert.Equal(t, domain.TaskStatusInProgress, args[0])
		assert.Equal(t, domain.TaskPriorityHigh, args[1])
		assert.Equal(t, categoryID, args[2])
		assert.Equal(t, assigneeID, args[3])
		assert.Equal(t, "%deploy%", args[4])
		assert.Equal(t, now, args[5])
	})
}

func TestEscapeLikePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, escapeLikePattern(tt.input))
	}
}
