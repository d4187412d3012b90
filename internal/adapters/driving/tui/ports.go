// Package tui provides an interactive terminal user interface for memo.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI talks to.
type Ports struct {
	// Memos creates, searches and reindexes memos.
	Memos driving.MemoService

	// Settings is optional; the status view shows provider and schedule from it.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(memos driving.MemoService, settings driving.SettingsService) *Ports {
	return &Ports{Memos: memos, Settings: settings}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Memos == nil {
		return ErrMissingMemoService
	}
	return nil
}
