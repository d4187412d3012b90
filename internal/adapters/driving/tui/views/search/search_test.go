package search

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
)

// stubMemoService answers Search only; other methods panic if reached.
type stubMemoService struct {
	driving.MemoService
	searchFunc func(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

func (s *stubMemoService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	return s.searchFunc(ctx, query, limit)
}

func testResults() []domain.SearchResult {
	return []domain.SearchResult{
		{ID: "1", Title: "Standup", Category: "work", Snippet: "release plan", Body: "release plan", Score: 0.9},
		{ID: "2", Title: "Retro", Category: "work", Snippet: "went well", Body: "went well", Score: 0.7},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newReadyView(memos driving.MemoService) *View {
	v := NewView(styles.DefaultStyles(), keymap.DefaultKeyMap(), memos)
	v.SetDimensions(80, 30)
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.NotNil(t, v.keymap)
	assert.False(t, v.Ready())
	assert.True(t, v.InputFocused())
	assert.NotNil(t, v.Init())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_WithContext(t *testing.T) {
	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")
	v := NewView(nil, nil, nil)

	assert.Same(t, v, v.WithContext(ctx))
	assert.Equal(t, ctx, v.ctx)
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, nil)

	v.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.True(t, v.Ready())
	assert.Equal(t, 100, v.width)
}

func TestView_TypingUpdatesQuery(t *testing.T) {
	v := newReadyView(nil)

	v.Update(runes("rain"))

	assert.Equal(t, "rain", v.Query())
}

func TestView_EnterSearches(t *testing.T) {
	var gotQuery string
	var gotLimit int
	memos := &stubMemoService{searchFunc: func(_ context.Context, q string, limit int) ([]domain.SearchResult, error) {
		gotQuery, gotLimit = q, limit
		return testResults(), nil
	}}
	v := newReadyView(memos)
	v.SetQuery("  release  ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()

	completed, ok := msg.(messages.SearchCompleted)
	require.True(t, ok)
	assert.Equal(t, "release", gotQuery)
	assert.Equal(t, ResultLimit, gotLimit)
	assert.Len(t, completed.Results, 2)
}

func TestView_EnterWithBlankQueryDoesNothing(t *testing.T) {
	v := newReadyView(nil)
	v.SetQuery("   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_SearchWithoutService(t *testing.T) {
	v := newReadyView(nil)
	v.SetQuery("x")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ErrorOccurred{Err: ErrNoMemoService}, cmd())
}

func TestView_SearchCompletedMovesToResults(t *testing.T) {
	v := newReadyView(nil)

	v.Update(messages.SearchCompleted{Query: "x", Results: testResults()})

	assert.False(t, v.InputFocused())
	assert.Len(t, v.Results(), 2)
	assert.NoError(t, v.Err())
	assert.Contains(t, v.View(), "Standup")
}

func TestView_SearchCompletedEmptyKeepsInput(t *testing.T) {
	v := newReadyView(nil)

	v.Update(messages.SearchCompleted{Query: "x"})

	assert.True(t, v.InputFocused())
	assert.Contains(t, v.View(), "No matching memos")
}

func TestView_SearchCompletedError(t *testing.T) {
	v := newReadyView(nil)

	v.Update(messages.SearchCompleted{Err: domain.ErrIndexNotReady})

	assert.ErrorIs(t, v.Err(), domain.ErrIndexNotReady)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newReadyView(nil)

	v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
}

func TestView_ResultNavigationAndOpen(t *testing.T) {
	v := newReadyView(nil)
	v.Update(messages.SearchCompleted{Results: testResults()})

	v.Update(runes("j"))
	assert.Equal(t, 1, v.SelectedIndex())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	selected, ok := cmd().(messages.MemoSelected)
	require.True(t, ok)
	assert.Equal(t, "2", selected.Result.ID)

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "1", v.SelectedResult().ID)
}

func TestView_NewSearchRefocusesInput(t *testing.T) {
	v := newReadyView(nil)
	v.SetQuery("old")
	v.Update(messages.SearchCompleted{Results: testResults()})

	v.Update(runes("n"))

	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Query())
	assert.Len(t, v.Results(), 2)
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := newReadyView(nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reset(t *testing.T) {
	v := newReadyView(nil)
	v.Update(messages.SearchCompleted{Results: testResults()})
	v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	v.Reset()

	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Results())
	assert.NoError(t, v.Err())
}
