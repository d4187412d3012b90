package memofs

import (
	"bufio"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// Header keys of the memo file format.
const (
	KeyID        = "UUID"
	KeyCreatedAt = "CREATED_AT"
	KeyTitle     = "TITLE"
	KeyTags      = "TAGS"
	KeyCategory  = "CATEGORY"
)

// Delimiter separates the header from the body.
const Delimiter = "---"

// Format renders a memo in the on-disk format.
func Format(m *domain.Memo) []byte {
	var b strings.Builder
	writeHeader(&b, KeyID, m.ID)
	writeHeader(&b, KeyCreatedAt, m.CreatedAt.UTC().Format(domain.TimestampLayout))
	writeHeader(&b, KeyTitle, m.Title)
	writeHeader(&b, KeyTags, m.Tags)
	writeHeader(&b, KeyCategory, m.Category)

	extra := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		writeHeader(&b, k, m.Extra[k])
	}

	b.WriteString(Delimiter)
	b.WriteByte('\n')
	b.WriteString(m.Body)
	return []byte(b.String())
}

func writeHeader(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

// Parse reads a memo file. Fields missing from the header are left zero;
// the store fills category and ID from the file location. Header lines
// without a key are ignored. Only a missing delimiter is a parse failure.
func Parse(data []byte) (*domain.Memo, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	m := &domain.Memo{}
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)

	offset := 0
	found := false
	for sc.Scan() {
		line := sc.Text()
		offset += len(line) + 1
		if line == Delimiter {
			found = true
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		setField(m, strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: missing %q delimiter", domain.ErrParseFailure, Delimiter)
	}

	if offset > len(text) {
		offset = len(text)
	}
	m.Body = strings.TrimSpace(text[offset:])
	return m, nil
}

func setField(m *domain.Memo, key, value string) {
	switch key {
	case KeyID:
		m.ID = value
	case KeyCreatedAt:
		// An unreadable timestamp leaves CreatedAt zero rather than hiding the memo.
		m.CreatedAt, _ = parseTimestamp(value)
	case KeyTitle:
		m.Title = value
	case KeyTags:
		m.Tags = value
	case KeyCategory:
		m.Category = value
	default:
		if m.Extra == nil {
			m.Extra = make(map[string]string)
		}
		m.Extra[key] = value
	}
}

// parseTimestamp accepts the written layout and the common ISO variants
// produced by other tools (with or without fraction and zone).
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	layouts := []string{
		domain.TimestampLayout,
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
