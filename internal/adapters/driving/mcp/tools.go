package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// defaultSearchLimit is used when a search names no limit.
const defaultSearchLimit = 5

// SearchInput is the input schema for the search_memos tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"what to look for, in natural language"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search_memos tool.
type SearchOutput struct {
	Results []MemoResult `json:"results"`
	Count   int          `json:"count"`
}

// MemoResult represents a single search result.
type MemoResult struct {
	ID        string  `json:"uuid"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Tags      string  `json:"tags"`
	CreatedAt string  `json:"created_at"`
	Score     float64 `json:"score"`
	Body      string  `json:"body"`
}

// CreateInput is the input schema for the create_memo tool.
type CreateInput struct {
	Category string `json:"category" jsonschema:"single-word category the memo is filed under"`
	Title    string `json:"title" jsonschema:"one-line title"`
	Tags     string `json:"tags,omitempty" jsonschema:"comma-separated tags"`
	Body     string `json:"body" jsonschema:"memo text"`
}

// CreateOutput is the output schema for the create_memo tool.
type CreateOutput struct {
	ID   string `json:"uuid"`
	Path string `json:"path"`
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// ListOutput is the output schema for the listing tools.
type ListOutput struct {
	Values []string `json:"values"`
}

// ReindexInput is the input schema for the reindex_memos tool.
type ReindexInput struct {
	Full bool `json:"full,omitempty" jsonschema:"re-embed every memo instead of only adding new ones"`
}

// ReindexOutput is the output schema for the reindex_memos tool.
type ReindexOutput struct {
	Added   int      `json:"added"`
	Total   int      `json:"total"`
	Full    bool     `json:"full"`
	Skipped []string `json:"skipped"`
}

// StatusOutput is the output schema for the index_status tool.
type StatusOutput struct {
	State      string `json:"state"`
	Records    int    `json:"records"`
	Dimensions int    `json:"dimensions"`
	Model      string `json:"model"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_memos",
		Description: "Search the user's memos by meaning and return the closest matches",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_memo",
		Description: "Save a new memo and index it for search",
	}, s.handleCreate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the categories memos are filed under",
	}, s.handleListCategories)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_tags",
		Description: "List every tag used on a memo",
	}, s.handleListTags)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reindex_memos",
		Description: "Index memo files added outside this tool, or rebuild the whole index",
	}, s.handleReindex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_status",
		Description: "Report the search index state and size",
	}, s.handleStatus)
}

// handleSearch handles the search_memos tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.ports.Memos.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]MemoResult, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = toMemoResult(&results[i])
	}

	return nil, output, nil
}

func toMemoResult(r *domain.SearchResult) MemoResult {
	created := ""
	if !r.CreatedAt.IsZero() {
		created = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return MemoResult{
		ID:        r.ID,
		Title:     r.Title,
		Category:  r.Category,
		Tags:      r.Tags,
		CreatedAt: created,
		Score:     r.Score,
		Body:      r.Body,
	}
}

// handleCreate handles the create_memo tool invocation.
func (s *Server) handleCreate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateInput,
) (*mcp.CallToolResult, CreateOutput, error) {
	path, memo, err := s.ports.Memos.Create(ctx, domain.CreateMemoRequest{
		Category: input.Category,
		Title:    input.Title,
		Tags:     input.Tags,
		Body:     input.Body,
	})
	if err != nil {
		return nil, CreateOutput{}, err
	}
	return nil, CreateOutput{ID: memo.ID, Path: path}, nil
}

// handleListCategories handles the list_categories tool invocation.
func (s *Server) handleListCategories(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ListOutput, error) {
	categories, err := s.ports.Memos.ListCategories(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}
	return nil, ListOutput{Values: nonNil(categories)}, nil
}

// handleListTags handles the list_tags tool invocation.
func (s *Server) handleListTags(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ListOutput, error) {
	tags, err := s.ports.Memos.ListTags(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}
	return nil, ListOutput{Values: nonNil(tags)}, nil
}

// handleReindex handles the reindex_memos tool invocation.
func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReindexInput,
) (*mcp.CallToolResult, ReindexOutput, error) {
	var (
		report *domain.ReconcileReport
		err    error
	)
	if input.Full {
		report, err = s.ports.Memos.Rebuild(ctx)
	} else {
		report, err = s.ports.Memos.CatchUp(ctx)
	}
	if err != nil {
		return nil, ReindexOutput{}, err
	}
	return nil, ReindexOutput{
		Added:   report.Added,
		Total:   report.Total,
		Full:    report.Full,
		Skipped: nonNil(report.Skipped),
	}, nil
}

// handleStatus handles the index_status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status := s.ports.Memos.Status()
	return nil, StatusOutput{
		State:      status.State.String(),
		Records:    status.Records,
		Dimensions: status.Dimensions,
		Model:      status.Model,
	}, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
