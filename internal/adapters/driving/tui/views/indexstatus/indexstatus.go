// Package indexstatus provides the index status view for the TUI.
package indexstatus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
)

// ErrNoMemoService indicates that no memo service was provided.
var ErrNoMemoService = errors.New("memo service is required")

// View shows the index state and runs catch-up or rebuild on request.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	memos    driving.MemoService
	settings driving.SettingsService
	ctx      context.Context

	status    domain.IndexStatus
	appConfig *domain.AppSettings
	report    *domain.ReconcileReport
	loaded    bool
	running   bool
	err       error
	width     int
	height    int
}

// NewView creates a status view. settings may be nil.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	memos driving.MemoService,
	settings driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		memos:    memos,
		settings: settings,
		ctx:      context.Background(),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context index operations run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the current status.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	memos := v.memos
	settings := v.settings
	return func() tea.Msg {
		if memos == nil {
			return messages.StatusLoaded{Err: ErrNoMemoService}
		}
		msg := messages.StatusLoaded{Status: memos.Status()}
		if settings != nil {
			msg.Settings, msg.Err = settings.Get()
		}
		return msg
	}
}

// Update handles messages for the status view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StatusLoaded:
		v.loaded = true
		v.status = msg.Status
		v.appConfig = msg.Settings
		v.err = msg.Err

	case messages.ReindexCompleted:
		v.running = false
		v.err = msg.Err
		if msg.Err == nil {
			v.report = msg.Report
		}
		return v, v.load()
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.CatchUp):
		return v, v.reindex(false)
	case keymap.Matches(msg.String(), v.keymap.Rebuild):
		return v, v.reindex(true)
	}
	return v, nil
}

func (v *View) reindex(full bool) tea.Cmd {
	if v.running || v.memos == nil {
		return nil
	}
	v.running = true
	v.err = nil

	memos := v.memos
	ctx := v.ctx
	return func() tea.Msg {
		var report *domain.ReconcileReport
		var err error
		if full {
			report, err = memos.Rebuild(ctx)
		} else {
			report, err = memos.CatchUp(ctx)
		}
		return messages.ReindexCompleted{Report: report, Err: err}
	}
}

// View renders the status view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Index status"))
	b.WriteString("\n\n")

	if !v.loaded {
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.row("State", v.renderState()))
		b.WriteString(v.row("Memos", fmt.Sprintf("%d", v.status.Records)))
		b.WriteString(v.row("Dimensions", fmt.Sprintf("%d", v.status.Dimensions)))
		b.WriteString(v.row("Model", v.status.Model))
		if v.appConfig != nil {
			b.WriteString(v.row("Provider", v.appConfig.Embedding.Provider.String()))
			b.WriteString(v.row("Catch-up", v.renderSchedule()))
		}
	}

	if v.running {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Indexing..."))
		b.WriteString("\n")
	}
	if v.report != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(renderReport(v.report)))
		b.WriteString("\n")
		for _, loc := range v.report.Skipped {
			b.WriteString(v.styles.Warning.Render("  skipped " + loc))
			b.WriteString("\n")
		}
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[c] catch up  [R] rebuild  [esc] back"))
	return b.String()
}

func (v *View) row(label, value string) string {
	return v.styles.Label.Width(12).Render(label) + value + "\n"
}

func (v *View) renderState() string {
	name := v.status.State.String()
	switch v.status.State {
	case domain.IndexReady:
		return v.styles.Success.Render(name)
	case domain.IndexEmpty:
		return v.styles.Warning.Render(name)
	default:
		return v.styles.Muted.Render(name)
	}
}

func (v *View) renderSchedule() string {
	sched := v.appConfig.Scheduler
	if !sched.Enabled || sched.CatchupInterval <= 0 {
		return "disabled"
	}
	return "every " + sched.CatchupInterval.String()
}

func renderReport(r *domain.ReconcileReport) string {
	kind := "Caught up"
	if r.Full {
		kind = "Rebuilt"
	}
	return fmt.Sprintf("%s: %d added, %d total", kind, r.Added, r.Total)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Status returns the last loaded index status.
func (v *View) Status() domain.IndexStatus {
	return v.status
}

// Report returns the last reindex report, or nil.
func (v *View) Report() *domain.ReconcileReport {
	return v.report
}

// Running reports whether a reindex is in flight.
func (v *View) Running() bool {
	return v.running
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
