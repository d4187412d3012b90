package driven

import "io"

// VectorIndex is an exact nearest-neighbour structure over fixed-size vectors.
// Rows are append-only and numbered in insertion order from zero.
//
// Implementations are not safe for concurrent mutation. The index coordinator
// owns each instance and serialises access.
type VectorIndex interface {
	// Add appends a batch of vectors and returns the row of the first one.
	// The first batch fixes the dimension; a later batch of another size
	// fails with domain.ErrDimensionMismatch and leaves the index unchanged.
	Add(vectors [][]float32) (int, error)

	// Search returns up to k hits ordered by ascending distance.
	// Equal distances keep row order. k <= 0 returns every row.
	Search(query []float32, k int) ([]VectorHit, error)

	// Len returns the number of rows.
	Len() int

	// Dimension returns the vector size, or 0 before the first Add.
	Dimension() int

	// Clone returns an independent copy.
	Clone() VectorIndex

	// WriteTo serialises the index.
	WriteTo(w io.Writer) (int64, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Row is the matched row, aligned with the metadata table position.
	Row int

	// Distance is the squared Euclidean distance to the query.
	Distance float32
}

// VectorIndexFactory creates and deserialises VectorIndex instances.
type VectorIndexFactory interface {
	// New returns an empty index.
	New() VectorIndex

	// Read deserialises an index written by VectorIndex.WriteTo.
	Read(r io.Reader) (VectorIndex, error)
}
