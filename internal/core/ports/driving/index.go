package driving

import (
	"context"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// IndexCoordinator owns the vector index and metadata table as one unit.
// Every method is safe for concurrent use; reads and writes are serialised.
type IndexCoordinator interface {
	// Initialize loads the persisted snapshot, falling back to Reconcile
	// when it is missing or corrupt. It is a no-op once initialised.
	Initialize(ctx context.Context) error

	// Reconcile rebuilds the snapshot from every memo in the store.
	Reconcile(ctx context.Context) (*domain.ReconcileReport, error)

	// ReconcileIncremental appends memos not yet present in the table.
	ReconcileIncremental(ctx context.Context) (*domain.ReconcileReport, error)

	// Incorporate appends one freshly written memo. On an uninitialised
	// index it runs Reconcile instead.
	Incorporate(ctx context.Context, memo *domain.Memo, location string) error

	// Query ranks memos against text. limit <= 0 returns every memo.
	Query(ctx context.Context, text string, limit int) ([]domain.SearchResult, error)

	// Categories returns the distinct categories, sorted.
	Categories(ctx context.Context) ([]string, error)

	// Tags returns the distinct tags, sorted.
	Tags(ctx context.Context) ([]string, error)

	// Status reports the current snapshot state.
	Status() domain.IndexStatus
}
