package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/styles"
)

// Field is a single-line labelled input used in forms.
type Field struct {
	label  string
	input  textinput.Model
	styles *styles.Styles
}

// NewField creates an unfocused field.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 40

	return &Field{label: label, input: ti, styles: s}
}

// Update forwards the message to the underlying input.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}

// View renders the label next to the framed input.
func (f *Field) View() string {
	frame := f.styles.InputField
	if f.input.Focused() {
		frame = f.styles.FocusedField
	}
	//nolint:misspell // lipgloss.Center is the library constant
	return lipgloss.JoinHorizontal(lipgloss.Center, f.styles.Label.Render(f.label), frame.Render(f.input.View()))
}

// Label returns the field label.
func (f *Field) Label() string {
	return f.label
}

// Value returns the current value.
func (f *Field) Value() string {
	return f.input.Value()
}

// SetValue sets the current value.
func (f *Field) SetValue(value string) {
	f.input.SetValue(value)
}

// Focus gives the field keyboard focus.
func (f *Field) Focus() tea.Cmd {
	return f.input.Focus()
}

// Blur removes keyboard focus.
func (f *Field) Blur() {
	f.input.Blur()
}

// Focused reports whether the field has focus.
func (f *Field) Focused() bool {
	return f.input.Focused()
}

// SetWidth sets the input width, leaving room for the label.
func (f *Field) SetWidth(width int) {
	f.input.Width = max(width-16, 20)
}

// Reset clears the value.
func (f *Field) Reset() {
	f.input.Reset()
}
