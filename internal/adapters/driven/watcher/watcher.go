// Package watcher reports changes under the memo directory using fsnotify.
//
// Events are debounced: a burst of writes (an editor saving, a sync tool
// copying a folder) produces a single callback once the directory has been
// quiet for the configured interval. Hidden files and directories, the
// snapshot directory among them, are ignored so that persisting the index
// does not retrigger the watcher.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memo-cli/internal/logger"
)

// Verify interface compliance.
var _ driven.MemoWatcher = (*Watcher)(nil)

// DefaultDebounce is used when New is given a non-positive interval.
const DefaultDebounce = 2 * time.Second

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// Watcher watches a memo root recursively.
type Watcher struct {
	root     string
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	closed  bool
	watched map[string]struct{}
}

// New creates a watcher for root. Nothing is watched until Watch is called.
func New(root string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:     root,
		debounce: debounce,
		watched:  make(map[string]struct{}),
	}
}

// Watch blocks until ctx is cancelled, calling onChange after each quiet
// period that followed at least one relevant event.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", w.root)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("watch: %w", err)
	}
	w.fsw = fsw
	w.mu.Unlock()
	defer w.Close() //nolint:errcheck // closed on every exit path

	if err := w.addTree(w.root); err != nil {
		return err
	}
	logger.Info("watching %s (debounce %s)", w.root, w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(event) {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)

		case <-timer.C:
			pending = false
			onChange()
		}
	}
}

// Close stops the underlying fsnotify watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.fsw == nil {
		return nil
	}
	err := w.fsw.Close()
	w.fsw = nil
	return err
}

// handleEvent reports whether event should count as a memo change. New
// directories are added to the watch list as they appear.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if ignored(w.root, event.Name) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logger.Warn("watch %s: %v", event.Name, err)
			}
			// Files copied in together with the directory raise no events of their own.
			return true
		}
	}

	if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && ignored(w.root, path) {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

func (w *Watcher) add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw == nil {
		return ErrClosed
	}
	if _, ok := w.watched[dir]; ok {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.watched[dir] = struct{}{}
	logger.Debug("watching directory %s", dir)
	return nil
}

// ignored reports whether path, or any directory between root and path,
// is hidden.
func ignored(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	if rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
