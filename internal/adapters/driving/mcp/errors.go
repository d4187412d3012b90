// Package mcp provides an MCP (Model Context Protocol) server adapter for memo.
// It lets AI assistants search, create and list memos.
package mcp

import "errors"

// ErrMissingMemoService is returned when the memo service is not provided.
var ErrMissingMemoService = errors.New("mcp: memo service is required")
