package memo

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

func longResult(lines int) domain.SearchResult {
	body := make([]string, lines)
	for i := range body {
		body[i] = "line"
	}
	return domain.SearchResult{
		ID:        "0123456789abcdef0123456789abcdef",
		Title:     "Long memo",
		Category:  "journal",
		Tags:      "life",
		CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Body:      strings.Join(body, "\n"),
		Score:     0.8123,
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.Nil(t, v.Result())
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No memo selected")
}

func TestView_RendersMemo(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(80, 40)

	v.SetResult(domain.SearchResult{
		ID: "abc", Title: "Standup", Category: "work", Tags: "daily", Body: "We shipped.", Score: 0.5,
	})
	out := v.View()

	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "daily")
	assert.Contains(t, out, "0.5000")
	assert.Contains(t, out, "We shipped.")
	assert.NotContains(t, out, "Line ")
}

func TestView_UntitledFallsBackToID(t *testing.T) {
	v := NewView(nil)

	v.SetResult(domain.SearchResult{ID: "abc", Category: "c"})

	out := v.View()
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "(empty)")
}

func TestView_Scrolling(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(80, 20)
	v.SetResult(longResult(30))

	visible := 20 - headerLines
	assert.Equal(t, 30, v.LineCount())

	v.Update(key("down"))
	v.Update(key("j"))
	assert.Equal(t, 2, v.ScrollOffset())

	v.Update(key("k"))
	assert.Equal(t, 1, v.ScrollOffset())

	v.Update(key("G"))
	assert.Equal(t, 30-visible, v.ScrollOffset())

	v.Update(key("pgdown"))
	assert.Equal(t, 30-visible, v.ScrollOffset())

	v.Update(key("g"))
	assert.Equal(t, 0, v.ScrollOffset())
	assert.Contains(t, v.View(), "Line 1-10 of 30")
}

func TestView_SetResultResetsScroll(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(80, 20)
	v.SetResult(longResult(30))
	v.Update(key("G"))

	v.SetResult(longResult(3))

	assert.Equal(t, 0, v.ScrollOffset())
}

func TestView_EscReturnsToSearch(t *testing.T) {
	v := NewView(nil)

	_, cmd := v.Update(key("esc"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())
}

func TestView_WindowSizeRewraps(t *testing.T) {
	v := NewView(nil)
	v.SetResult(domain.SearchResult{ID: "a", Body: strings.Repeat("word ", 40)})
	narrow := v.LineCount()

	v.Update(tea.WindowSizeMsg{Width: 300, Height: 40})

	assert.Less(t, v.LineCount(), narrow)
}

func TestWrapLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"breaks at space", "alpha beta gamma", 11, []string{"alpha beta", "gamma"}},
		{"hard break", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"empty", "", 10, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapLine(tt.line, tt.width))
		})
	}
}
