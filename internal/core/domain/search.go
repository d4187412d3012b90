package domain

import (
	"math"
	"time"
)

// SearchResult is one ranked memo returned by a query.
type SearchResult struct {
	ID        string    `json:"uuid"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`

	// Score is 1/(1+d) for squared L2 distance d, rounded to 4 places.
	Score float64 `json:"score"`
}

// NewSearchResult builds a result from a record and its distance.
func NewSearchResult(rec MetaRecord, distance float32) SearchResult {
	return SearchResult{
		ID:        rec.ID,
		Title:     rec.Title,
		Snippet:   rec.Snippet,
		Body:      rec.Body,
		Category:  rec.Category,
		Tags:      rec.Tags,
		CreatedAt: rec.CreatedAt,
		Score:     DistanceScore(distance),
	}
}

// DistanceScore maps a non-negative distance to a similarity in (0, 1].
func DistanceScore(distance float32) float64 {
	d := float64(distance)
	if d < 0 {
		d = 0
	}
	return math.Round(10000/(1+d)) / 10000
}
