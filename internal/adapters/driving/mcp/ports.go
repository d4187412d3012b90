package mcp

import (
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Memos creates, searches and lists memos.
	Memos driving.MemoService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Memos == nil {
		return ErrMissingMemoService
	}
	return nil
}
