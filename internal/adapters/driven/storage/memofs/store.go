package memofs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.MemoStore = (*Store)(nil)

// Extension is the memo file extension.
const Extension = ".txt"

// Store is a filesystem-backed memo store.
type Store struct {
	root string
}

// New returns a store rooted at root, creating the directory if needed.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("memofs: create root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("memofs: resolve root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// Path resolves a location to an absolute filesystem path.
func (s *Store) Path(location string) string {
	return filepath.Join(s.root, filepath.FromSlash(location))
}

// Write persists a new memo at <category>/<id>.txt and returns its location.
// The file appears atomically so a concurrent scan never sees half a memo.
func (s *Store) Write(ctx context.Context, m *domain.Memo) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.ID == "" || m.Category == "" {
		return "", fmt.Errorf("memofs: write: %w: id and category are required", domain.ErrInvalidInput)
	}

	location := path.Join(m.Category, m.ID+Extension)
	if err := validLocation(location); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, m.Category)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("memofs: write: %w: %v", domain.ErrStorageIO, err)
	}

	target := s.Path(location)
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("memofs: write: %w: %s already exists", domain.ErrInvalidInput, location)
	}

	tmp, err := os.CreateTemp(dir, "."+m.ID+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("memofs: write: %w: %v", domain.ErrStorageIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(Format(m)); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("memofs: write: %w: %v", domain.ErrStorageIO, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("memofs: sync: %w: %v", domain.ErrStorageIO, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("memofs: close: %w: %v", domain.ErrStorageIO, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("memofs: chmod: %w: %v", domain.ErrStorageIO, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("memofs: rename: %w: %v", domain.ErrStorageIO, err)
	}

	return location, nil
}

// Read parses the memo at location.
func (s *Store) Read(ctx context.Context, location string) (*domain.Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validLocation(location); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(location))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("memofs: read %s: %w", location, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("memofs: read %s: %w: %v", location, domain.ErrStorageIO, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("memofs: %s: %w", location, err)
	}
	fillFromLocation(m, location)
	return m, nil
}

// List returns every memo location under the root in lexicographic order.
// A missing root yields an empty list.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var locations []string

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := d.Name()
		if d.IsDir() {
			if p != s.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, Extension) || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		locations = append(locations, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("memofs: list: %w", err)
	}

	sort.Strings(locations)
	return locations, nil
}

// fillFromLocation supplies header fields older or hand-written memos omit.
// A CATEGORY header wins over the parent directory.
func fillFromLocation(m *domain.Memo, location string) {
	if m.Category == "" {
		if dir := path.Dir(location); dir != "." {
			m.Category = path.Base(dir)
		}
	}
	if m.ID == "" {
		m.ID = strings.TrimSuffix(path.Base(location), Extension)
	}
	if m.Title == "" {
		first, _, _ := strings.Cut(m.Body, "\n")
		m.Title = strings.TrimSpace(first)
	}
}

func validLocation(location string) error {
	clean := path.Clean(location)
	if location == "" || path.IsAbs(location) || clean != location ||
		clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("memofs: %w: bad location %q", domain.ErrInvalidInput, location)
	}
	return nil
}
