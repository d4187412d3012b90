package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDistanceScore(t *testing.T) {
	tests := []struct {
		name     string
		distance float32
		expected float64
	}{
		{name: "identical vectors", distance: 0, expected: 1},
		{name: "unit distance", distance: 1, expected: 0.5},
		{name: "opposite unit vectors", distance: 4, expected: 0.2},
		{name: "rounds to four places", distance: 2, expected: 0.3333},
		{name: "negative clamps to zero", distance: -0.0001, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DistanceScore(tt.distance), 1e-9)
		})
	}
}

func TestNewSearchResult(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := MetaRecord{
		ID:        "abc",
		Title:     "Groceries",
		Category:  "personal",
		Tags:      "food, list",
		CreatedAt: created,
		Snippet:   "milk",
		Body:      "milk",
		Location:  "personal/abc.txt",
	}

	res := NewSearchResult(rec, 1)

	assert.Equal(t, "abc", res.ID)
	assert.Equal(t, "Groceries", res.Title)
	assert.Equal(t, "personal", res.Category)
	assert.Equal(t, created, res.CreatedAt)
	assert.Equal(t, 0.5, res.Score)
}
