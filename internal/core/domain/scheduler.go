package domain

import (
	"fmt"
	"time"
)

// ScheduledTask represents a recurring background task.
type ScheduledTask struct {
	// ID is the unique identifier for the task.
	ID string

	// Name is a human-readable name for the task.
	Name string

	// Interval defines how often the task should run.
	Interval time.Duration

	// LastRun is when the task last ran.
	LastRun time.Time

	// NextRun is when the task should run next.
	NextRun time.Time

	// LastError contains the last error message, if any.
	LastError string

	// LastSuccess is when the task last completed successfully.
	LastSuccess time.Time

	// Enabled indicates whether the task is active.
	Enabled bool
}

// TaskResult represents the outcome of a task execution.
type TaskResult struct {
	TaskID    string
	StartedAt time.Time
	EndedAt   time.Time
	Success   bool
	Error     string

	// Added is the number of memos appended by the run.
	Added int

	// Skipped is the number of memo files that failed to parse.
	Skipped int

	// Total is the number of indexed memos after the run.
	Total int
}

// Summary describes the outcome in one line.
func (r *TaskResult) Summary() string {
	if !r.Success {
		return "failed: " + r.Error
	}
	s := fmt.Sprintf("%d added, %d total", r.Added, r.Total)
	if r.Skipped > 0 {
		s += fmt.Sprintf(", %d skipped", r.Skipped)
	}
	return s
}

// Task IDs for built-in tasks.
const (
	TaskIDIndexCatchup = "index-catchup"
)
