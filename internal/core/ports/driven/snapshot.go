package driven

import "github.com/custodia-labs/memo-cli/internal/core/domain"

// SnapshotStore persists the vector index and metadata table as one unit.
type SnapshotStore interface {
	// Save writes both halves. On error the previously saved pair may be
	// replaced only in a way Load detects as corrupt.
	Save(index VectorIndex, table *domain.MetadataTable) error

	// Load reads both halves. Returns an error wrapping
	// domain.ErrSnapshotMissing when nothing was saved and
	// domain.ErrSnapshotCorrupt when the halves do not match.
	Load() (VectorIndex, *domain.MetadataTable, error)
}
