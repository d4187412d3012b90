package domain

import (
	"sort"
	"time"
)

// MetaRecord is the index-side shadow of a Memo.
// Record i of a MetadataTable describes row i of the vector index.
type MetaRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	Snippet   string    `json:"snippet"`
	Body      string    `json:"body"`

	// Location is the memo's path relative to the memo root, slash separated.
	// It is the deduplication key for incremental reconciliation.
	Location string `json:"location"`
}

// NewMetaRecord builds the record for a memo stored at location.
func NewMetaRecord(m *Memo, location string) MetaRecord {
	return MetaRecord{
		ID:        m.ID,
		Title:     m.Title,
		Category:  m.Category,
		Tags:      m.Tags,
		CreatedAt: m.CreatedAt,
		Snippet:   Snippet(m.Body),
		Body:      m.Body,
		Location:  location,
	}
}

// MetadataTable is an ordered sequence of records.
// The zero value is an empty table ready to use.
type MetadataTable struct {
	records []MetaRecord
}

// NewMetadataTable returns a table holding the given records in order.
func NewMetadataTable(records []MetaRecord) *MetadataTable {
	return &MetadataTable{records: records}
}

// Append adds a record and returns its position.
func (t *MetadataTable) Append(rec MetaRecord) int {
	t.records = append(t.records, rec)
	return len(t.records) - 1
}

// Get returns the record at position i.
func (t *MetadataTable) Get(i int) (MetaRecord, bool) {
	if i < 0 || i >= len(t.records) {
		return MetaRecord{}, false
	}
	return t.records[i], true
}

// Len returns the number of records.
func (t *MetadataTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the records in table order.
func (t *MetadataTable) Records() []MetaRecord {
	out := make([]MetaRecord, len(t.records))
	copy(out, t.records)
	return out
}

// KeysSeen returns the set of store locations already present.
func (t *MetadataTable) KeysSeen() map[string]struct{} {
	seen := make(map[string]struct{}, len(t.records))
	for _, r := range t.records {
		seen[r.Location] = struct{}{}
	}
	return seen
}

// Clone returns an independent copy. Appending to the clone never
// affects the original.
func (t *MetadataTable) Clone() *MetadataTable {
	if t == nil {
		return &MetadataTable{}
	}
	return &MetadataTable{records: t.Records()}
}

// Categories returns the distinct categories, sorted.
func (t *MetadataTable) Categories() []string {
	set := make(map[string]struct{})
	for _, r := range t.records {
		set[r.Category] = struct{}{}
	}
	return sortedKeys(set)
}

// Tags returns the distinct tag tokens across all records, sorted.
func (t *MetadataTable) Tags() []string {
	set := make(map[string]struct{})
	for _, r := range t.records {
		for _, tag := range SplitTags(r.Tags) {
			set[tag] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
