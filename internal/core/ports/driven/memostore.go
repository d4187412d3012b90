package driven

import (
	"context"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// MemoStore is the memo directory. It is the source of truth; the index is
// derived from it and can always be rebuilt from it.
type MemoStore interface {
	// Write persists a new memo and returns its store location
	// (a slash separated path relative to the store root).
	Write(ctx context.Context, memo *domain.Memo) (string, error)

	// Read parses the memo at location.
	// Returns an error wrapping domain.ErrParseFailure for malformed files.
	Read(ctx context.Context, location string) (*domain.Memo, error)

	// List returns every memo location in a stable lexicographic order.
	List(ctx context.Context) ([]string, error)

	// Path resolves a location to an absolute filesystem path.
	Path(location string) string

	// Root returns the store root directory.
	Root() string
}
