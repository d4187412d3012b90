package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

func seedMemos() []domain.CreateMemoRequest {
	return []domain.CreateMemoRequest{
		{Category: "work", Title: "Standup", Tags: "daily, team", Body: "release shipped on friday"},
		{Category: "home", Title: "Groceries", Tags: "shopping", Body: "eggs milk bread"},
		{Category: "work", Title: "Retro", Tags: "team", Body: "fewer meetings next sprint"},
	}
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked results", func(t *testing.T) {
		server, _ := newTestServer(t, seedMemos()...)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "eggs milk bread", Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		require.Len(t, output.Results, 2)
		assert.Equal(t, "Groceries", output.Results[0].Title)
		assert.Equal(t, "home", output.Results[0].Category)
		assert.Equal(t, 1.0, output.Results[0].Score)
		assert.NotEmpty(t, output.Results[0].CreatedAt)
		assert.Len(t, output.Results[0].ID, 32)
	})

	t.Run("default limit", func(t *testing.T) {
		var seeds []domain.CreateMemoRequest
		for i := 0; i < defaultSearchLimit+3; i++ {
			seeds = append(seeds, domain.CreateMemoRequest{Category: "c", Title: "t", Body: "note"})
		}
		server, _ := newTestServer(t, seeds...)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "note"})

		require.NoError(t, err)
		assert.Equal(t, defaultSearchLimit, output.Count)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Memos: &failingMemoService{err: errors.New("search failed")}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleCreate(t *testing.T) {
	ctx := context.Background()
	server, memos := newTestServer(t)

	_, output, err := server.handleCreate(ctx, nil, CreateInput{
		Category: "ideas", Title: "Garden", Tags: "outdoor", Body: "plant tomatoes",
	})

	require.NoError(t, err)
	assert.Len(t, output.ID, 32)
	assert.Contains(t, output.Path, "ideas/")
	assert.Equal(t, 1, memos.Status().Records)

	_, _, err = server.handleCreate(ctx, nil, CreateInput{Category: "ideas", Body: "no title"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleListings(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t, seedMemos()...)

	_, categories, err := server.handleListCategories(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "work"}, categories.Values)

	_, tags, err := server.handleListTags(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"daily", "shopping", "team"}, tags.Values)
}

func TestServer_handleListings_Empty(t *testing.T) {
	server, _ := newTestServer(t)

	_, categories, err := server.handleListCategories(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.NotNil(t, categories.Values)
	assert.Empty(t, categories.Values)
}

func TestServer_handleReindex(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t, seedMemos()...)

	_, incremental, err := server.handleReindex(ctx, nil, ReindexInput{})
	require.NoError(t, err)
	assert.False(t, incremental.Full)
	assert.Equal(t, 0, incremental.Added)
	assert.Equal(t, 3, incremental.Total)
	assert.NotNil(t, incremental.Skipped)

	_, full, err := server.handleReindex(ctx, nil, ReindexInput{Full: true})
	require.NoError(t, err)
	assert.True(t, full.Full)
	assert.Equal(t, 3, full.Added)
}

func TestServer_handleReindex_Failure(t *testing.T) {
	server, err := NewServer(&Ports{Memos: &failingMemoService{err: domain.ErrIndexNotReady}})
	require.NoError(t, err)

	_, _, err = server.handleReindex(context.Background(), nil, ReindexInput{})

	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestServer_handleStatus(t *testing.T) {
	server, _ := newTestServer(t, seedMemos()...)

	_, status, err := server.handleStatus(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.Equal(t, "ready", status.State)
	assert.Equal(t, 3, status.Records)
	assert.Equal(t, 64, status.Dimensions)
	assert.Equal(t, "md5-hash", status.Model)
}
