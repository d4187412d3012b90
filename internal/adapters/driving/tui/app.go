package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/views/create"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/views/indexstatus"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/views/memo"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView   *menu.View
	searchView *search.View
	memoView   *memo.View
	createView *create.View
	statusView *indexstatus.View

	currentView messages.ViewType

	// err holds the last error reported by any view.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		menuView:    menu.NewView(s),
		searchView:  search.NewView(s, nil, ports.Memos),
		memoView:    memo.NewView(s),
		createView:  create.NewView(s, nil, ports.Memos),
		statusView:  indexstatus.NewView(s, nil, ports.Memos, ports.Settings),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context searches, saves and reindexes run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.createView.WithContext(ctx)
	a.statusView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("memo"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		return a, a.changeView(msg.View)

	case messages.MemoSelected:
		a.memoView.SetResult(msg.Result)
		a.currentView = messages.ViewMemo
		return a, nil

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.MemoCreated:
		a.createView, cmd = a.createView.Update(msg)
		a.err = a.createView.Err()
		return a, cmd

	case messages.StatusLoaded, messages.ReindexCompleted:
		a.statusView, cmd = a.statusView.Update(msg)
		a.err = a.statusView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward hands msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewMemo:
		a.memoView, cmd = a.memoView.Update(msg)
	case messages.ViewCreate:
		a.createView, cmd = a.createView.Update(msg)
	case messages.ViewStatus:
		a.statusView, cmd = a.statusView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

func (a *App) changeView(view messages.ViewType) tea.Cmd {
	previous := a.currentView
	a.currentView = view

	switch view {
	case messages.ViewSearch:
		// Coming back from a memo keeps the query and results.
		if previous == messages.ViewMemo {
			return nil
		}
		a.searchView.Reset()
		return a.searchView.Init()
	case messages.ViewCreate:
		a.createView.Reset()
		return a.createView.Init()
	case messages.ViewStatus:
		return a.statusView.Init()
	case messages.ViewMenu, messages.ViewMemo, messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewMemo:
		return a.memoView.View()
	case messages.ViewCreate:
		return a.createView.View()
	case messages.ViewStatus:
		return a.statusView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Anywhere:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  /           Search
  n           New memo
  q           Quit

Search:
  (type)      Enter a query
  enter       Run the search
  j/k, ↑/↓    Move through results
  enter       Open the selected memo
  n, /        New search

New memo:
  tab         Next field (shift+tab for previous)
  enter       Next field; new line in the body
  ctrl+s      Save

Index status:
  c           Catch up with new memo files
  R           Rebuild the whole index

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.searchView.SelectedIndex()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.memoView.SetDimensions(width, height)
	a.createView.SetDimensions(width, height)
	a.statusView.SetDimensions(width, height)
}
