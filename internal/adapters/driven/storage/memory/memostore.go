package memory

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

// Ensure MemoStore implements the interface.
var _ driven.MemoStore = (*MemoStore)(nil)

// MemoStore is an in-memory implementation of driven.MemoStore for testing.
// Put and PutBroken add memos behind the service's back, the way a restored
// backup or another process would.
type MemoStore struct {
	mu     sync.RWMutex
	memos  map[string]*domain.Memo
	broken map[string]bool

	// WriteErr, when non-nil, is returned by Write.
	WriteErr error
}

// NewMemoStore creates a new in-memory memo store.
func NewMemoStore() *MemoStore {
	return &MemoStore{
		memos:  make(map[string]*domain.Memo),
		broken: make(map[string]bool),
	}
}

// Write stores the memo at <category>/<id>.txt.
func (s *MemoStore) Write(_ context.Context, m *domain.Memo) (string, error) {
	if s.WriteErr != nil {
		return "", s.WriteErr
	}
	location := path.Join(m.Category, m.ID+".txt")
	s.Put(location, m)
	return location, nil
}

// Put stores a memo at an explicit location.
func (s *MemoStore) Put(location string, m *domain.Memo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.memos[location] = &cp
	delete(s.broken, location)
}

// PutBroken adds a location that fails to parse.
func (s *MemoStore) PutBroken(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken[location] = true
	delete(s.memos, location)
}

// Read returns a copy of the memo at location.
func (s *MemoStore) Read(_ context.Context, location string) (*domain.Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.broken[location] {
		return nil, fmt.Errorf("%s: %w", location, domain.ErrParseFailure)
	}
	m, ok := s.memos[location]
	if !ok {
		return nil, fmt.Errorf("%s: %w", location, domain.ErrNotFound)
	}
	cp := *m
	return &cp, nil
}

// List returns every location in lexicographic order.
func (s *MemoStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.memos)+len(s.broken))
	for loc := range s.memos {
		out = append(out, loc)
	}
	for loc := range s.broken {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out, nil
}

// Path returns the location unchanged.
func (s *MemoStore) Path(location string) string {
	return "/memory/" + location
}

// Root returns a fixed pseudo-root.
func (s *MemoStore) Root() string {
	return "/memory"
}
