package flat

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an exact L2 index. It is not safe for concurrent mutation.
type Index struct {
	dim  int
	data []float32
}

// New returns an empty index. The first Add fixes its dimension.
func New() *Index {
	return &Index{}
}

// Add appends vectors and returns the row of the first one.
func (x *Index) Add(vectors [][]float32) (int, error) {
	start := x.Len()
	if len(vectors) == 0 {
		return start, nil
	}

	dim := x.dim
	if dim == 0 {
		dim = len(vectors[0])
		if dim == 0 {
			return start, fmt.Errorf("flat: add: %w: zero-length vector", domain.ErrDimensionMismatch)
		}
	}
	for i, v := range vectors {
		if len(v) != dim {
			return start, fmt.Errorf("flat: add: %w: vector %d has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, i, len(v), dim)
		}
	}

	x.dim = dim
	for _, v := range vectors {
		x.data = append(x.data, v...)
	}
	return start, nil
}

// Search returns up to k rows nearest to query by squared L2 distance.
func (x *Index) Search(query []float32, k int) ([]driven.VectorHit, error) {
	n := x.Len()
	if n == 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("flat: search: %w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), x.dim)
	}

	hits := make([]driven.VectorHit, n)
	for row := 0; row < n; row++ {
		hits[row] = driven.VectorHit{Row: row, Distance: squaredL2(query, x.row(row))}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k > 0 && k < n {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of rows.
func (x *Index) Len() int {
	if x.dim == 0 {
		return 0
	}
	return len(x.data) / x.dim
}

// Dimension returns the vector size, or 0 before the first Add.
func (x *Index) Dimension() int {
	return x.dim
}

// Vector returns a copy of the vector at row.
func (x *Index) Vector(row int) ([]float32, bool) {
	if row < 0 || row >= x.Len() {
		return nil, false
	}
	out := make([]float32, x.dim)
	copy(out, x.row(row))
	return out, true
}

// Clone returns an independent copy.
func (x *Index) Clone() driven.VectorIndex {
	data := make([]float32, len(x.data))
	copy(data, x.data)
	return &Index{dim: x.dim, data: data}
}

func (x *Index) row(i int) []float32 {
	return x.data[i*x.dim : (i+1)*x.dim]
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
