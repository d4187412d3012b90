package memofs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

func TestFormatParse_RoundTrip(t *testing.T) {
	m := &domain.Memo{
		ID:        "0123456789abcdef0123456789abcdef",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC),
		Category:  "work",
		Title:     "Standup",
		Tags:      "daily, team",
		Body:      "Discussed the release.\n\nNext: ship it.",
		Extra:     map[string]string{"SOURCE": "import"},
	}

	got, err := Parse(Format(m))

	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestFormat_Layout(t *testing.T) {
	m := &domain.Memo{
		ID:        "abc",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Category:  "personal",
		Title:     "T",
		Tags:      "a, b",
		Body:      "hello",
	}

	expected := "UUID: abc\n" +
		"CREATED_AT: 2024-01-02T03:04:05.000000Z\n" +
		"TITLE: T\n" +
		"TAGS: a, b\n" +
		"CATEGORY: personal\n" +
		"---\n" +
		"hello"
	assert.Equal(t, expected, string(Format(m)))
}

func TestParse_MissingDelimiter(t *testing.T) {
	_, err := Parse([]byte("UUID: abc\nTITLE: no body marker\n"))

	assert.True(t, errors.Is(err, domain.ErrParseFailure))
}

func TestParse_HeaderLineWithoutColonIsIgnored(t *testing.T) {
	m, err := Parse([]byte("UUID: abc\nCATEGORY: work\nnote about things\n: orphan value\n---\nbody text"))

	require.NoError(t, err)
	assert.Equal(t, "abc", m.ID)
	assert.Equal(t, "work", m.Category)
	assert.Equal(t, "body text", m.Body)
	assert.Empty(t, m.Extra)
}

func TestParse_DelimiterOnlyAtFirstOccurrence(t *testing.T) {
	m, err := Parse([]byte("TITLE: x\n---\nabove\n---\nbelow"))

	require.NoError(t, err)
	assert.Equal(t, "above\n---\nbelow", m.Body)
}

func TestParse_DelimiterAtEnd(t *testing.T) {
	m, err := Parse([]byte("TITLE: x\n---"))

	require.NoError(t, err)
	assert.Empty(t, m.Body)
}

func TestParse_CRLF(t *testing.T) {
	m, err := Parse([]byte("TITLE: x\r\nTAGS: a\r\n---\r\nbody\r\n"))

	require.NoError(t, err)
	assert.Equal(t, "x", m.Title)
	assert.Equal(t, "body", m.Body)
}

func TestParse_TimestampVariants(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for _, ts := range []string{
		"2024-05-01T10:00:00.000000Z",
		"2024-05-01T10:00:00Z",
		"2024-05-01T10:00:00",
		"2024-05-01T19:00:00+09:00",
	} {
		t.Run(ts, func(t *testing.T) {
			m, err := Parse([]byte("CREATED_AT: " + ts + "\n---\nb"))
			require.NoError(t, err)
			assert.True(t, want.Equal(m.CreatedAt), "got %s", m.CreatedAt)
		})
	}
}

func TestParse_BadTimestampIsTolerated(t *testing.T) {
	m, err := Parse([]byte("CREATED_AT: yesterday\n---\nb"))

	require.NoError(t, err)
	assert.True(t, m.CreatedAt.IsZero())
}
