// Package create provides the new-memo form for the TUI.
package create

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
)

// ErrNoMemoService indicates that no memo service was provided.
var ErrNoMemoService = errors.New("memo service is required")

// Focus positions, in tab order.
const (
	focusCategory = iota
	focusTitle
	focusTags
	focusBody
	focusCount
)

// View is a form with category, title, tags and a multi-line body.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	category *input.Field
	title    *input.Field
	tags     *input.Field
	body     textarea.Model

	memos driving.MemoService
	ctx   context.Context

	focus  int
	saving bool
	saved  *messages.MemoCreated
	err    error
	width  int
	height int
}

// NewView creates an empty form with the category field focused.
func NewView(s *styles.Styles, km *keymap.KeyMap, memos driving.MemoService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	body := textarea.New()
	body.Placeholder = "Write your memo..."
	body.ShowLineNumbers = false
	body.CharLimit = 0

	v := &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s, km),
		category:  input.NewField(s, "Category", "e.g. work"),
		title:     input.NewField(s, "Title", "short summary"),
		tags:      input.NewField(s, "Tags", "comma separated, optional"),
		body:      body,
		memos:     memos,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.statusbar.SetState(status.StateEditing)
	v.setFocus(focusCategory)
	return v
}

// WithContext sets the context memos are saved under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.MemoCreated:
		v.handleCreated(msg)
		return v, nil
	}

	return v.forward(msg)
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.Save):
		return v, v.submit()
	case keymap.Matches(msg.String(), v.keymap.NextField):
		return v, v.setFocus((v.focus + 1) % focusCount)
	case keymap.Matches(msg.String(), v.keymap.PrevField):
		return v, v.setFocus((v.focus + focusCount - 1) % focusCount)
	case msg.Type == tea.KeyEnter && v.focus != focusBody:
		return v, v.setFocus(v.focus + 1)
	}
	return v.forward(msg)
}

func (v *View) forward(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	switch v.focus {
	case focusCategory:
		v.category, cmd = v.category.Update(msg)
	case focusTitle:
		v.title, cmd = v.title.Update(msg)
	case focusTags:
		v.tags, cmd = v.tags.Update(msg)
	case focusBody:
		v.body, cmd = v.body.Update(msg)
	}
	return v, cmd
}

func (v *View) setFocus(focus int) tea.Cmd {
	v.focus = focus
	v.category.Blur()
	v.title.Blur()
	v.tags.Blur()
	v.body.Blur()

	switch focus {
	case focusCategory:
		return v.category.Focus()
	case focusTitle:
		return v.title.Focus()
	case focusTags:
		return v.tags.Focus()
	default:
		return v.body.Focus()
	}
}

// Request returns the memo described by the current form values.
func (v *View) Request() domain.CreateMemoRequest {
	return domain.CreateMemoRequest{
		Category: v.category.Value(),
		Title:    v.title.Value(),
		Tags:     v.tags.Value(),
		Body:     v.body.Value(),
	}
}

func (v *View) submit() tea.Cmd {
	if v.saving {
		return nil
	}
	req := v.Request()
	if err := req.Validate(); err != nil {
		v.setError(err)
		return nil
	}

	v.saving = true
	v.err = nil
	v.statusbar.SetState(status.StateSaving)

	memos := v.memos
	ctx := v.ctx
	return func() tea.Msg {
		if memos == nil {
			return messages.MemoCreated{Err: ErrNoMemoService}
		}
		path, memo, err := memos.Create(ctx, req)
		return messages.MemoCreated{Path: path, Memo: memo, Err: err}
	}
}

func (v *View) handleCreated(msg messages.MemoCreated) {
	v.saving = false
	if msg.Memo == nil && msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.saved = &msg
	v.clearFields()
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("saved but not indexed: " + msg.Err.Error())
		return
	}
	v.err = nil
	v.statusbar.SetState(status.StateDone)
	v.statusbar.SetMessage(fmt.Sprintf("Saved %s", msg.Path))
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) clearFields() {
	v.category.Reset()
	v.title.Reset()
	v.tags.Reset()
	v.body.Reset()
	v.setFocus(focusCategory)
}

// View renders the form.
func (v *View) View() string {
	frame := v.styles.InputField
	if v.focus == focusBody {
		frame = v.styles.FocusedField
	}

	sections := []string{
		v.styles.Title.Render("New memo"),
		"",
		v.category.View(),
		v.title.View(),
		v.tags.View(),
		v.styles.Label.Render("Body"),
		frame.Render(v.body.View()),
		"",
	}
	if v.saved != nil && v.saved.Memo != nil {
		sections = append(sections, v.styles.Muted.Render("Last saved: "+v.saved.Memo.ID))
	}
	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sizes the fields and the body editor.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	v.category.SetWidth(width)
	v.title.SetWidth(width)
	v.tags.SetWidth(width)
	v.body.SetWidth(max(width-6, 20))
	v.body.SetHeight(max(height-18, 3))
	v.statusbar.SetWidth(width)
}

// Reset clears the form and any outcome of a previous save.
func (v *View) Reset() {
	v.clearFields()
	v.saving = false
	v.saved = nil
	v.err = nil
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateEditing)
}

// Focus returns the index of the focused field.
func (v *View) Focus() int {
	return v.focus
}

// Saving reports whether a save is in flight.
func (v *View) Saving() bool {
	return v.saving
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}

// LastSaved returns the outcome of the last successful write, or nil.
func (v *View) LastSaved() *messages.MemoCreated {
	return v.saved
}

// SetValues fills the form.
func (v *View) SetValues(req domain.CreateMemoRequest) {
	v.category.SetValue(req.Category)
	v.title.SetValue(req.Title)
	v.tags.SetValue(req.Tags)
	v.body.SetValue(strings.TrimRight(req.Body, "\n"))
}
