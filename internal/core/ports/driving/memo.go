package driving

import (
	"context"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// MemoService is the application surface used by the CLI, TUI, HTTP and MCP adapters.
type MemoService interface {
	// Create writes a new memo and incorporates it into the index.
	// Returns the memo's absolute file path.
	Create(ctx context.Context, req domain.CreateMemoRequest) (string, *domain.Memo, error)

	// Search ranks memos against query. limit <= 0 returns every memo.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

	// ListCategories returns the distinct categories, sorted.
	ListCategories(ctx context.Context) ([]string, error)

	// ListTags returns the distinct tags, sorted.
	ListTags(ctx context.Context) ([]string, error)

	// Rebuild runs a full reconcile.
	Rebuild(ctx context.Context) (*domain.ReconcileReport, error)

	// CatchUp runs an incremental reconcile and waits for it.
	CatchUp(ctx context.Context) (*domain.ReconcileReport, error)

	// TriggerReconcileIncremental starts an incremental reconcile in the
	// background and returns immediately. Triggers arriving while one is
	// running are coalesced into a single follow-up run.
	TriggerReconcileIncremental()

	// Wait blocks until background reconciles have finished.
	Wait()

	// Status reports the index state.
	Status() domain.IndexStatus
}
