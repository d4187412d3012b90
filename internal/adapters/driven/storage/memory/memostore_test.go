package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

func TestMemoStore_WriteReadList(t *testing.T) {
	store := NewMemoStore()
	ctx := context.Background()

	loc, err := store.Write(ctx, &domain.Memo{ID: "b", Category: "work", Body: "x"})
	require.NoError(t, err)
	assert.Equal(t, "work/b.txt", loc)

	store.Put("personal/a.txt", &domain.Memo{ID: "a", Category: "personal"})
	store.PutBroken("work/broken.txt")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"personal/a.txt", "work/b.txt", "work/broken.txt"}, list)

	m, err := store.Read(ctx, "work/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", m.Body)

	_, err = store.Read(ctx, "work/broken.txt")
	assert.True(t, errors.Is(err, domain.ErrParseFailure))

	_, err = store.Read(ctx, "missing.txt")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoStore_ReadReturnsCopy(t *testing.T) {
	store := NewMemoStore()
	store.Put("a.txt", &domain.Memo{Title: "original"})

	m, err := store.Read(context.Background(), "a.txt")
	require.NoError(t, err)
	m.Title = "changed"

	again, err := store.Read(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
}

func TestMemoStore_WriteErr(t *testing.T) {
	store := NewMemoStore()
	store.WriteErr = errors.New("boom")

	_, err := store.Write(context.Background(), &domain.Memo{ID: "a", Category: "c"})
	assert.Error(t, err)
}
