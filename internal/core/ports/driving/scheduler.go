package driving

import (
	"context"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// Scheduler runs background tasks such as the periodic index catch-up.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or an error occurs.
	Start(ctx context.Context) error

	// Stop gracefully stops all running tasks.
	Stop() error

	// Tasks returns the registered tasks and their last run state.
	Tasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// History returns the most recent runs of a task, newest first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)
}
