package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/memo-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/memo-cli/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memo-cli/internal/core/services"
)

// failingMemoService fails every call it overrides with err.
type failingMemoService struct {
	driving.MemoService
	err error
}

func (m *failingMemoService) Search(context.Context, string, int) ([]domain.SearchResult, error) {
	return nil, m.err
}

func (m *failingMemoService) Create(context.Context, domain.CreateMemoRequest) (string, *domain.Memo, error) {
	return "", nil, m.err
}

func (m *failingMemoService) ListCategories(context.Context) ([]string, error) {
	return nil, m.err
}

func (m *failingMemoService) CatchUp(context.Context) (*domain.ReconcileReport, error) {
	return nil, m.err
}

// newTestServer returns a server over an in-memory memo store seeded with memos.
func newTestServer(t *testing.T, memos ...domain.CreateMemoRequest) (*Server, *services.MemoService) {
	t.Helper()
	store := memory.NewMemoStore()
	coord := services.NewIndexCoordinator(store, memory.NewSnapshotStore(flat.Factory{}), flat.Factory{}, hash.NewEmbeddingService(64))
	memoService := services.NewMemoService(store, coord)
	for _, req := range memos {
		_, _, err := memoService.Create(context.Background(), req)
		require.NoError(t, err)
	}

	server, err := NewServer(&Ports{Memos: memoService})
	require.NoError(t, err)
	return server, memoService
}
