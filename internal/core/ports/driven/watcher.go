package driven

import "context"

// MemoWatcher reports changes under the memo directory.
type MemoWatcher interface {
	// Watch blocks until ctx is cancelled, calling onChange after each
	// quiet period that followed at least one change.
	Watch(ctx context.Context, onChange func()) error

	// Close releases resources.
	Close() error
}
