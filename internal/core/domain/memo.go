package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TimestampLayout is the creation timestamp format written to memo headers.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// SnippetLength is the number of runes kept from a body for display.
const SnippetLength = 100

// Memo is one persisted note. It is created once and never updated.
type Memo struct {
	// ID is an opaque identifier, unique across the memo store.
	ID string

	// CreatedAt is when the memo was created (UTC).
	CreatedAt time.Time

	// Category groups memos and is also the storage partition.
	Category string

	// Title is the memo title.
	Title string

	// Tags is the raw comma-separated tag list.
	Tags string

	// Body is the free-form text.
	Body string

	// Extra holds unrecognised header keys so they survive a round trip.
	Extra map[string]string
}

// TagList splits the raw tag string into trimmed, non-empty tokens.
func (m *Memo) TagList() []string {
	return SplitTags(m.Tags)
}

// SplitTags splits a comma-separated tag string into trimmed, non-empty tokens.
func SplitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Snippet returns the first SnippetLength runes of body, with "..." appended
// when the body was truncated.
func Snippet(body string) string {
	if utf8.RuneCountInString(body) <= SnippetLength {
		return body
	}
	runes := []rune(body)
	return string(runes[:SnippetLength]) + "..."
}

// CreateMemoRequest holds the user-supplied fields of a new memo.
type CreateMemoRequest struct {
	Category string
	Title    string
	Tags     string
	Body     string
}

// Validate checks the request fields. Category is used as a directory name
// so it must be a single, non-special path element.
func (r CreateMemoRequest) Validate() error {
	category := strings.TrimSpace(r.Category)
	switch {
	case category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	case category == "." || category == "..":
		return fmt.Errorf("%w: category %q is reserved", ErrInvalidInput, category)
	case strings.ContainsAny(category, `/\`):
		return fmt.Errorf("%w: category must not contain path separators", ErrInvalidInput)
	case strings.HasPrefix(category, "."):
		return fmt.Errorf("%w: category must not start with a dot", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.ContainsAny(r.Title, "\r\n") || strings.ContainsAny(r.Tags, "\r\n") {
		return fmt.Errorf("%w: title and tags must be a single line", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidInput)
	}
	return nil
}
