// Package taskstats implements the task query and statistics engine: the
// filter criteria a task listing accepts, the overdue predicate's filter
// form, and the read-time aggregate summary. All computations take an
// explicit "now" so callers and tests control the clock.
package taskstats
