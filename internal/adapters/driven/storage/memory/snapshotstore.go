package memory

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps the last saved snapshot as serialised bytes, so what
// Load returns never aliases what the caller still holds.
type SnapshotStore struct {
	mu      sync.Mutex
	factory driven.VectorIndexFactory
	index   []byte
	records []domain.MetaRecord
	saved   bool

	// Saves counts successful Save calls.
	Saves int

	// SaveErr, when non-nil, is returned by Save.
	SaveErr error

	// LoadErr, when non-nil, is returned by Load.
	LoadErr error
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore(factory driven.VectorIndexFactory) *SnapshotStore {
	return &SnapshotStore{factory: factory}
}

// Save records a copy of the pair.
func (s *SnapshotStore) Save(index driven.VectorIndex, table *domain.MetadataTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	var buf bytes.Buffer
	if _, err := index.WriteTo(&buf); err != nil {
		return err
	}
	s.index = buf.Bytes()
	s.records = table.Records()
	s.saved = true
	s.Saves++
	return nil
}

// Load returns the last saved pair.
func (s *SnapshotStore) Load() (driven.VectorIndex, *domain.MetadataTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, nil, s.LoadErr
	}
	if !s.saved {
		return nil, nil, fmt.Errorf("memory snapshot: %w", domain.ErrSnapshotMissing)
	}
	index, err := s.factory.Read(bytes.NewReader(s.index))
	if err != nil {
		return nil, nil, err
	}
	records := make([]domain.MetaRecord, len(s.records))
	copy(records, s.records)
	return index, domain.NewMetadataTable(records), nil
}

// Bytes returns the serialised index of the last save.
func (s *SnapshotStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.index...)
}
