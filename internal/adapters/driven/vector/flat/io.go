package flat

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

var magic = [4]byte{'M', 'F', 'L', 'T'}

const version uint32 = 1

// Limits applied by Read to headers from a damaged file.
const (
	maxRows = 1 << 26
	maxDim  = 1 << 16
)

// readChunk is the number of floats Read decodes per step.
const readChunk = 1 << 16

// WriteTo serialises the index. See the package documentation for the format.
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)
	le := binary.LittleEndian

	if _, err := bw.Write(magic[:]); err != nil {
		return cw.n, fmt.Errorf("flat: write magic: %w", err)
	}
	for _, v := range []uint32{version, uint32(x.dim), uint32(x.Len())} {
		if err := binary.Write(bw, le, v); err != nil {
			return cw.n, fmt.Errorf("flat: write header: %w", err)
		}
	}
	if len(x.data) > 0 {
		if err := binary.Write(bw, le, x.data); err != nil {
			return cw.n, fmt.Errorf("flat: write vectors: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("flat: flush: %w", err)
	}
	return cw.n, nil
}

// Read deserialises an index written by WriteTo. When r reports its
// remaining length, as *bytes.Reader does, a header promising more vectors
// than r holds is rejected before anything is allocated.
func Read(r io.Reader) (*Index, error) {
	le := binary.LittleEndian

	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("flat: read magic: %w: %v", domain.ErrSnapshotCorrupt, err)
	}
	if m != magic {
		return nil, fmt.Errorf("flat: %w: bad magic %q", domain.ErrSnapshotCorrupt, m[:])
	}

	var hdr [3]uint32
	if err := binary.Read(r, le, &hdr); err != nil {
		return nil, fmt.Errorf("flat: read header: %w: %v", domain.ErrSnapshotCorrupt, err)
	}
	ver, dim, count := hdr[0], int64(hdr[1]), int64(hdr[2])
	if ver != version {
		return nil, fmt.Errorf("flat: %w: unsupported version %d", domain.ErrSnapshotCorrupt, ver)
	}
	if count > maxRows || dim > maxDim || (count > 0 && dim == 0) {
		return nil, fmt.Errorf("flat: %w: bad shape %dx%d", domain.ErrSnapshotCorrupt, count, dim)
	}

	want := count * dim
	if sized, ok := r.(interface{ Len() int }); ok && int64(sized.Len()) < want*4 {
		return nil, fmt.Errorf("flat: %w: header says %dx%d, only %d bytes follow",
			domain.ErrSnapshotCorrupt, count, dim, sized.Len())
	}

	x := &Index{dim: int(dim)}
	if want == 0 {
		return x, nil
	}

	// Grow in chunks so a lying header on an unsized reader hits EOF
	// before it can force a huge allocation.
	br := bufio.NewReader(r)
	x.data = make([]float32, 0, min(want, readChunk))
	buf := make([]float32, min(want, readChunk))
	for remaining := want; remaining > 0; {
		n := min(remaining, int64(len(buf)))
		if err := binary.Read(br, le, buf[:n]); err != nil {
			return nil, fmt.Errorf("flat: read vectors: %w: %v", domain.ErrSnapshotCorrupt, err)
		}
		x.data = append(x.data, buf[:n]...)
		remaining -= n
	}
	return x, nil
}

// Factory implements driven.VectorIndexFactory for flat indexes.
type Factory struct{}

// Verify interface compliance.
var _ driven.VectorIndexFactory = Factory{}

// New returns an empty flat index.
func (Factory) New() driven.VectorIndex {
	return New()
}

// Read deserialises a flat index.
func (Factory) Read(r io.Reader) (driven.VectorIndex, error) {
	x, err := Read(r)
	if err != nil {
		return nil, err
	}
	return x, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
