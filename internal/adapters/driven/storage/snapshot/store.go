// Package snapshot persists the vector index and its metadata table.
//
// Two files are written to the snapshot directory:
//
//	metas.json  JSON array of metadata records in table order
//	index.bin   [4B magic "MSNP"] [4B version] [4B record count]
//	            [32B SHA-256 of metas.json] [vector index blob]
//
// Each file is written to a temporary name and renamed into place. Because
// index.bin carries the digest of the metas file it was saved with, a crash
// between the two renames leaves a pair that Load reports as corrupt instead
// of a silently mismatched one.
package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.SnapshotStore = (*Store)(nil)

// File names inside the snapshot directory.
const (
	IndexFile = "index.bin"
	MetasFile = "metas.json"
)

// DirName is the conventional snapshot directory inside the memo root.
const DirName = ".index_data"

var magic = [4]byte{'M', 'S', 'N', 'P'}

const version uint32 = 1

// Store reads and writes snapshots in one directory.
type Store struct {
	dir     string
	factory driven.VectorIndexFactory
}

// New returns a store writing to dir. The directory is created on first Save.
func New(dir string, factory driven.VectorIndexFactory) *Store {
	return &Store{dir: dir, factory: factory}
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes metas.json then index.bin.
func (s *Store) Save(index driven.VectorIndex, table *domain.MetadataTable) error {
	if index.Len() != table.Len() {
		return fmt.Errorf("snapshot: save: index has %d rows, table has %d records", index.Len(), table.Len())
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("snapshot: save: %w: %v", domain.ErrStorageIO, err)
	}

	records := table.Records()
	metas, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode metas: %w", err)
	}
	digest := sha256.Sum256(metas)

	var blob bytes.Buffer
	blob.Write(magic[:])
	le := binary.LittleEndian
	_ = binary.Write(&blob, le, version)
	_ = binary.Write(&blob, le, uint32(len(records)))
	blob.Write(digest[:])
	if _, err := index.WriteTo(&blob); err != nil {
		return fmt.Errorf("snapshot: encode index: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(s.dir, MetasFile), metas); err != nil {
		return fmt.Errorf("snapshot: save %s: %w: %v", MetasFile, domain.ErrStorageIO, err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, IndexFile), blob.Bytes()); err != nil {
		return fmt.Errorf("snapshot: save %s: %w: %v", IndexFile, domain.ErrStorageIO, err)
	}
	return nil
}

// Load reads and cross-checks both files.
func (s *Store) Load() (driven.VectorIndex, *domain.MetadataTable, error) {
	blob, blobErr := os.ReadFile(filepath.Join(s.dir, IndexFile))
	metas, metasErr := os.ReadFile(filepath.Join(s.dir, MetasFile))

	switch {
	case errors.Is(blobErr, fs.ErrNotExist) && errors.Is(metasErr, fs.ErrNotExist):
		return nil, nil, fmt.Errorf("snapshot: load: %w", domain.ErrSnapshotMissing)
	case blobErr != nil:
		return nil, nil, fmt.Errorf("snapshot: load %s: %w: %v", IndexFile, domain.ErrSnapshotCorrupt, blobErr)
	case metasErr != nil:
		return nil, nil, fmt.Errorf("snapshot: load %s: %w: %v", MetasFile, domain.ErrSnapshotCorrupt, metasErr)
	}

	r := bytes.NewReader(blob)
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil || m != magic {
		return nil, nil, fmt.Errorf("snapshot: load: %w: bad header", domain.ErrSnapshotCorrupt)
	}
	var hdr [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, nil, fmt.Errorf("snapshot: load: %w: short header", domain.ErrSnapshotCorrupt)
	}
	if hdr[0] != version {
		return nil, nil, fmt.Errorf("snapshot: load: %w: unsupported version %d", domain.ErrSnapshotCorrupt, hdr[0])
	}
	var digest [sha256.Size]byte
	if _, err := io.ReadFull(r, digest[:]); err != nil {
		return nil, nil, fmt.Errorf("snapshot: load: %w: short digest", domain.ErrSnapshotCorrupt)
	}
	if sha256.Sum256(metas) != digest {
		return nil, nil, fmt.Errorf("snapshot: load: %w: %s does not match %s", domain.ErrSnapshotCorrupt, MetasFile, IndexFile)
	}

	index, err := s.factory.Read(r)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: load: %w", err)
	}

	var records []domain.MetaRecord
	if err := json.Unmarshal(metas, &records); err != nil {
		return nil, nil, fmt.Errorf("snapshot: load %s: %w: %v", MetasFile, domain.ErrSnapshotCorrupt, err)
	}

	count := int(hdr[1])
	if len(records) != count || index.Len() != count {
		return nil, nil, fmt.Errorf("snapshot: load: %w: header says %d, index has %d, metas has %d",
			domain.ErrSnapshotCorrupt, count, index.Len(), len(records))
	}

	return index, domain.NewMetadataTable(records), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer os.Remove(name) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}
