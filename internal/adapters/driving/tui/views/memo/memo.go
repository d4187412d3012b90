// Package memo provides the full-memo reader view for the TUI.
package memo

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// headerLines is the height of the title, metadata block and footer.
const headerLines = 10

// View shows one search result with its whole body, scrollable.
type View struct {
	styles *styles.Styles

	result       *domain.SearchResult
	lines        []string
	scrollOffset int
	width        int
	height       int
}

// NewView creates an empty memo view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, width: 80, height: 24}
}

// SetResult shows result and scrolls to the top.
func (v *View) SetResult(result domain.SearchResult) {
	v.result = &result
	v.scrollOffset = 0
	v.wrap()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles scrolling and the back key.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.scrollTo(v.scrollOffset - 1)
	case "down", "j":
		v.scrollTo(v.scrollOffset + 1)
	case "pgup", "ctrl+u":
		v.scrollTo(v.scrollOffset - v.visibleLines())
	case "pgdown", "ctrl+d", " ":
		v.scrollTo(v.scrollOffset + v.visibleLines())
	case "home", "g":
		v.scrollTo(0)
	case "end", "G":
		v.scrollTo(v.maxScrollOffset())
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}
	return v, nil
}

func (v *View) scrollTo(offset int) {
	v.scrollOffset = min(max(offset, 0), v.maxScrollOffset())
}

// wrap splits the body into display lines, breaking at spaces where it can.
func (v *View) wrap() {
	v.lines = nil
	if v.result == nil || v.result.Body == "" {
		return
	}
	width := max(v.width-4, 20)
	for _, raw := range strings.Split(v.result.Body, "\n") {
		v.lines = append(v.lines, wrapLine(raw, width)...)
	}
}

func wrapLine(line string, width int) []string {
	runes := []rune(line)
	if len(runes) <= width {
		return []string{line}
	}

	var out []string
	for len(runes) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimRight(string(runes[:cut]), " "))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

func (v *View) visibleLines() int {
	return max(v.height-headerLines, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the memo.
func (v *View) View() string {
	if v.result == nil {
		return v.styles.Muted.Render("No memo selected") + "\n\n" + v.renderHelp()
	}

	var b strings.Builder
	r := v.result

	title := r.Title
	if title == "" {
		title = r.ID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(v.metaRow("Category", v.styles.Tag.Render(r.Category)))
	if r.Tags != "" {
		b.WriteString(v.metaRow("Tags", v.styles.Tag.Render(r.Tags)))
	}
	if !r.CreatedAt.IsZero() {
		b.WriteString(v.metaRow("Created", r.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	b.WriteString(v.metaRow("Score", v.styles.Score.Render(fmt.Sprintf("%.4f", r.Score))))
	b.WriteString(v.metaRow("ID", v.styles.Muted.Render(r.ID)))
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 10), 60)))
	b.WriteString("\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(empty)"))
		b.WriteString("\n")
	}
	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(v.lines))
	for _, line := range v.lines[v.scrollOffset:end] {
		b.WriteString(v.styles.Normal.Render(line))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d",
			v.scrollOffset+1, end, len(v.lines))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) metaRow(label, value string) string {
	return v.styles.Label.Render(label) + value + "\n"
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions and rewraps the body.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.wrap()
	v.scrollTo(v.scrollOffset)
}

// Result returns the memo being shown, or nil.
func (v *View) Result() *domain.SearchResult {
	return v.result
}

// ScrollOffset returns the index of the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// LineCount returns the number of wrapped body lines.
func (v *View) LineCount() int {
	return len(v.lines)
}
