package flat

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

func TestIndex_Add_ReturnsStartRow(t *testing.T) {
	x := New()

	start, err := x.Add([][]float32{{1, 0}, {0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 0, start)

	start, err = x.Add([][]float32{{1, 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, x.Len())
	assert.Equal(t, 2, x.Dimension())
}

func TestIndex_Add_EmptyBatch(t *testing.T) {
	x := New()
	start, err := x.Add(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, x.Dimension())
}

func TestIndex_Add_DimensionMismatch(t *testing.T) {
	x := New()
	_, err := x.Add([][]float32{{1, 0, 0}})
	require.NoError(t, err)

	_, err = x.Add([][]float32{{1, 0, 0}, {1, 0}})
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
	assert.Equal(t, 1, x.Len(), "failed batch must not be partially applied")
}

func TestIndex_Add_MixedFirstBatch(t *testing.T) {
	x := New()
	_, err := x.Add([][]float32{{1, 0}, {1}})
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
	assert.Equal(t, 0, x.Len())
	assert.Equal(t, 0, x.Dimension())
}

func TestIndex_Search_OrdersByDistance(t *testing.T) {
	x := New()
	_, err := x.Add([][]float32{{0, 1}, {1, 0}, {0.6, 0.8}})
	require.NoError(t, err)

	hits, err := x.Search([]float32{1, 0}, 0)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 1, hits[0].Row)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
	assert.Equal(t, 2, hits[1].Row)
	assert.Equal(t, 0, hits[2].Row)
	assert.InDelta(t, 2, hits[2].Distance, 1e-6)
}

func TestIndex_Search_TiesKeepRowOrder(t *testing.T) {
	x := New()
	_, err := x.Add([][]float32{{0, 1}, {1, 0}, {0, 1}, {0, 1}})
	require.NoError(t, err)

	hits, err := x.Search([]float32{0, 1}, 0)
	require.NoError(t, err)

	rows := []int{hits[0].Row, hits[1].Row, hits[2].Row, hits[3].Row}
	assert.Equal(t, []int{0, 2, 3, 1}, rows)
}

func TestIndex_Search_Limit(t *testing.T) {
	x := New()
	_, err := x.Add([][]float32{{1, 0}, {0, 1}, {1, 1}})
	require.NoError(t, err)

	hits, err := x.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = x.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestIndex_Search_Empty(t *testing.T) {
	hits, err := New().Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_Search_QueryDimensionMismatch(t *testing.T) {
	x := New()
	_, err := x.Add([][]float32{{1, 0}})
	require.NoError(t, err)

	_, err = x.Search([]float32{1, 0, 0}, 1)
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
}

func TestIndex_Clone_IsIndependent(t *testing.T) {
	x := New()
	_, err := x.Add([][]float32{{1, 0}})
	require.NoError(t, err)

	clone := x.Clone()
	_, err = clone.Add([][]float32{{0, 1}})
	require.NoError(t, err)

	assert.Equal(t, 1, x.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestIndex_Vector(t *testing.T) {
	x := New()
	_, err := x.Add([][]float32{{1, 2}, {3, 4}})
	require.NoError(t, err)

	v, ok := x.Vector(1)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, v)

	v[0] = 99
	again, _ := x.Vector(1)
	assert.Equal(t, float32(3), again[0])

	_, ok = x.Vector(2)
	assert.False(t, ok)
}

func TestIndex_WriteToRead_RoundTrip(t *testing.T) {
	x := New()
	_, err := x.Add([][]float32{{1, 0, 0}, {0, 0.5, 0.5}})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := x.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, int64(16+2*3*4), n)

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, x.Len(), got.Len())
	assert.Equal(t, x.Dimension(), got.Dimension())
	v, _ := got.Vector(1)
	assert.Equal(t, []float32{0, 0.5, 0.5}, v)
}

func TestIndex_WriteToRead_Empty(t *testing.T) {
	var buf bytes.Buffer
	_, err := New().WriteTo(&buf)
	require.NoError(t, err)

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestRead_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "bad magic", data: []byte("NOPE\x01\x00\x00\x00")},
		{name: "truncated header", data: []byte("MFLT\x01\x00")},
		{name: "bad version", data: []byte("MFLT\x09\x00\x00\x00\x02\x00\x00\x00\x00\x00\x00\x00")},
		{name: "truncated vectors", data: []byte("MFLT\x01\x00\x00\x00\x02\x00\x00\x00\x01\x00\x00\x00\x00\x00")},
		{name: "huge dimension", data: []byte("MFLT\x01\x00\x00\x00\xff\xff\xff\x7f\x01\x00\x00\x00")},
		{name: "rows beyond data", data: []byte("MFLT\x01\x00\x00\x00\x00\x01\x00\x00\x00\x00\x00\x04\x00\x00\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.data))
			assert.True(t, errors.Is(err, domain.ErrSnapshotCorrupt))
		})
	}
}

// An unsized reader cannot be checked up front, so Read must still fail
// at EOF without allocating what the header claims.
func TestRead_LyingHeaderUnsizedReader(t *testing.T) {
	data := []byte("MFLT\x01\x00\x00\x00\x00\x01\x00\x00\x00\x00\x00\x04\x00\x00\x80\x3f")

	_, err := Read(io.MultiReader(bytes.NewReader(data)))

	assert.True(t, errors.Is(err, domain.ErrSnapshotCorrupt))
}

func TestFactory(t *testing.T) {
	f := Factory{}
	x := f.New()
	_, err := x.Add([][]float32{{1}})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = x.WriteTo(&buf)
	require.NoError(t, err)

	got, err := f.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	got, err = f.Read(bytes.NewReader(nil))
	assert.Error(t, err)
	assert.Nil(t, got)
}
