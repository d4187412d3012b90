// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// MemoSelected is sent when a result is opened from the list.
type MemoSelected struct {
	Result domain.SearchResult
}

// MemoCreated reports the outcome of saving a memo. Memo is set when the
// file was written even if Err reports an indexing failure.
type MemoCreated struct {
	Path string
	Memo *domain.Memo
	Err  error
}

// StatusLoaded carries the index status and scheduled tasks.
type StatusLoaded struct {
	Status   domain.IndexStatus
	Settings *domain.AppSettings
	Err      error
}

// ReindexCompleted reports a catch-up or rebuild started from the TUI.
type ReindexCompleted struct {
	Report *domain.ReconcileReport
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewMemo shows one memo in full.
	ViewMemo
	// ViewCreate is the new-memo form.
	ViewCreate
	// ViewStatus shows index state and offers catch-up and rebuild.
	ViewStatus
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewMemo:
		return "memo"
	case ViewCreate:
		return "create"
	case ViewStatus:
		return "status"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
