package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memo-cli/internal/logger"
)

// Ensure IndexCoordinator implements the interface.
var _ driving.IndexCoordinator = (*IndexCoordinator)(nil)

// IndexCoordinator owns the vector index and the metadata table.
//
// A single mutex guards both halves. Every operation holds it for its whole
// snapshot access, embedding and file I/O included, so readers never see a
// half-applied batch. Mutations build a candidate pair from clones, persist
// it, and only then swap it in; a failure anywhere leaves the previous pair
// in place.
type IndexCoordinator struct {
	memos     driven.MemoStore
	snapshots driven.SnapshotStore
	indexes   driven.VectorIndexFactory
	embedder  driven.EmbeddingService

	mu    sync.Mutex
	state domain.IndexState
	index driven.VectorIndex
	table *domain.MetadataTable
}

// NewIndexCoordinator creates a coordinator in the Uninitialized state.
func NewIndexCoordinator(
	memos driven.MemoStore,
	snapshots driven.SnapshotStore,
	indexes driven.VectorIndexFactory,
	embedder driven.EmbeddingService,
) *IndexCoordinator {
	return &IndexCoordinator{
		memos:     memos,
		snapshots: snapshots,
		indexes:   indexes,
		embedder:  embedder,
	}
}

// Initialize loads the persisted snapshot or rebuilds it from the memo store.
func (c *IndexCoordinator) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.IndexUninitialized {
		return nil
	}
	_, err := c.initializeLocked(ctx)
	return err
}

// initializeLocked returns the reconcile report when it had to rebuild,
// or nil when the persisted snapshot was usable.
func (c *IndexCoordinator) initializeLocked(ctx context.Context) (*domain.ReconcileReport, error) {
	logger.Section("Index Initialize")

	index, table, err := c.snapshots.Load()
	switch {
	case err == nil && c.compatible(index):
		c.install(index, table)
		logger.Info("loaded snapshot: %d memos, %d dimensions", table.Len(), index.Dimension())
		return nil, nil
	case err == nil:
		logger.Warn("snapshot has %d dimensions, %s produces %d; rebuilding",
			index.Dimension(), c.embedder.ModelName(), c.embedder.Dimensions())
	case errors.Is(err, domain.ErrSnapshotMissing):
		logger.Info("no snapshot found; building from memo store")
	default:
		logger.Warn("snapshot unusable (%v); rebuilding", err)
	}

	return c.reconcileLocked(ctx)
}

// compatible reports whether a loaded index can serve queries from the
// current embedder. An unknown size on either side is given the benefit
// of the doubt; the first real mismatch surfaces as ErrDimensionMismatch.
func (c *IndexCoordinator) compatible(index driven.VectorIndex) bool {
	want := c.embedder.Dimensions()
	have := index.Dimension()
	return want == 0 || have == 0 || want == have
}

// Reconcile rebuilds the snapshot from every memo in the store.
func (c *IndexCoordinator) Reconcile(ctx context.Context) (*domain.ReconcileReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.reconcileLocked(ctx)
}

func (c *IndexCoordinator) reconcileLocked(ctx context.Context) (*domain.ReconcileReport, error) {
	logger.Section("Reconcile")
	defer logger.Timed("reconcile")()

	locations, err := c.memos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	memos, found, skipped, err := c.readMemos(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	index := c.indexes.New()
	table := &domain.MetadataTable{}
	if err := c.appendBatch(ctx, index, table, memos, found); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	if err := c.persist(index, table); err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	c.install(index, table)

	logger.Info("reconciled %d memos (%d skipped)", table.Len(), len(skipped))
	return &domain.ReconcileReport{
		Added:   table.Len(),
		Skipped: skipped,
		Total:   table.Len(),
		Full:    true,
	}, nil
}

// ReconcileIncremental appends memos whose location is not yet in the table.
// Existing rows are never re-embedded or reordered. When nothing is new the
// snapshot on disk is left untouched.
func (c *IndexCoordinator) ReconcileIncremental(ctx context.Context) (*domain.ReconcileReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.IndexUninitialized {
		report, err := c.initializeLocked(ctx)
		if err != nil || report != nil {
			return report, err
		}
	}

	logger.Section("Incremental Reconcile")
	defer logger.Timed("incremental reconcile")()

	locations, err := c.memos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("incremental reconcile: %w", err)
	}

	seen := c.table.KeysSeen()
	var fresh []string
	for _, loc := range locations {
		if _, ok := seen[loc]; !ok {
			fresh = append(fresh, loc)
		}
	}

	memos, found, skipped, err := c.readMemos(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("incremental reconcile: %w", err)
	}

	report := &domain.ReconcileReport{Skipped: skipped, Total: c.table.Len()}
	if len(memos) == 0 {
		logger.Debug("no new memos (%d unparseable)", len(skipped))
		return report, nil
	}

	index := c.index.Clone()
	table := c.table.Clone()
	if err := c.appendBatch(ctx, index, table, memos, found); err != nil {
		return nil, fmt.Errorf("incremental reconcile: %w", err)
	}
	if err := c.persist(index, table); err != nil {
		return nil, fmt.Errorf("incremental reconcile: %w", err)
	}
	c.install(index, table)

	report.Added = len(memos)
	report.Total = table.Len()
	logger.Info("appended %d memos, index now holds %d", report.Added, report.Total)
	return report, nil
}

// Incorporate appends one memo that was just written at location.
func (c *IndexCoordinator) Incorporate(ctx context.Context, memo *domain.Memo, location string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == domain.IndexUninitialized {
		report, err := c.initializeLocked(ctx)
		if err != nil {
			return fmt.Errorf("incorporate: %w", err)
		}
		if report != nil {
			// The rebuild scanned the store, new memo included.
			return nil
		}
	}

	if _, ok := c.table.KeysSeen()[location]; ok {
		logger.Debug("incorporate: %s already indexed", location)
		return nil
	}

	index := c.index.Clone()
	table := c.table.Clone()
	if err := c.appendBatch(ctx, index, table, []*domain.Memo{memo}, []string{location}); err != nil {
		return fmt.Errorf("incorporate: %w", err)
	}
	if err := c.persist(index, table); err != nil {
		return fmt.Errorf("incorporate: %w", err)
	}
	c.install(index, table)

	logger.Debug("incorporated %s at row %d", location, table.Len()-1)
	return nil
}

// Query ranks memos by similarity to text, highest score first.
func (c *IndexCoordinator) Query(ctx context.Context, text string, limit int) ([]domain.SearchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureInitializedLocked(ctx); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	results := []domain.SearchResult{}
	if c.state == domain.IndexEmpty {
		return results, nil
	}

	vecs, err := c.embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits, err := c.index.Search(vecs[0], limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	for _, hit := range hits {
		rec, ok := c.table.Get(hit.Row)
		if !ok {
			return nil, fmt.Errorf("query: row %d has no metadata record", hit.Row)
		}
		results = append(results, domain.NewSearchResult(rec, hit.Distance))
	}
	logger.Debug("query %q: %d of %d memos returned", text, len(results), c.table.Len())
	return results, nil
}

// Categories returns the distinct categories, sorted.
func (c *IndexCoordinator) Categories(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureInitializedLocked(ctx); err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return c.table.Categories(), nil
}

// Tags returns the distinct tags, sorted.
func (c *IndexCoordinator) Tags(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureInitializedLocked(ctx); err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	return c.table.Tags(), nil
}

// Status reports the current snapshot state.
func (c *IndexCoordinator) Status() domain.IndexStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := domain.IndexStatus{
		State:     c.state,
		StateName: c.state.String(),
		Model:     c.embedder.ModelName(),
	}
	if c.state != domain.IndexUninitialized {
		status.Records = c.table.Len()
		status.Dimensions = c.index.Dimension()
	}
	return status
}

// ensureInitializedLocked runs the lazy build for readers. A failed build
// leaves the coordinator Uninitialized and reports ErrIndexNotReady, so
// "no memos" and "could not build" stay distinguishable.
func (c *IndexCoordinator) ensureInitializedLocked(ctx context.Context) error {
	if c.state != domain.IndexUninitialized {
		return nil
	}
	if _, err := c.initializeLocked(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexNotReady, err)
	}
	return nil
}

// readMemos parses each location, skipping the ones that fail to parse.
// Any other read failure aborts the batch.
func (c *IndexCoordinator) readMemos(
	ctx context.Context,
	locations []string,
) (memos []*domain.Memo, found, skipped []string, err error) {
	for _, loc := range locations {
		m, err := c.memos.Read(ctx, loc)
		switch {
		case err == nil:
			memos = append(memos, m)
			found = append(found, loc)
		case errors.Is(err, domain.ErrParseFailure):
			logger.Warn("skipping %s: %v", loc, err)
			skipped = append(skipped, loc)
		case errors.Is(err, domain.ErrNotFound):
			// Removed between List and Read.
			logger.Debug("skipping %s: vanished during scan", loc)
		default:
			return nil, nil, nil, err
		}
	}
	return memos, found, skipped, nil
}

// appendBatch embeds memos and appends them to index and table together.
// index and table must be private to the caller; on error they may hold
// a partial batch and must be discarded.
func (c *IndexCoordinator) appendBatch(
	ctx context.Context,
	index driven.VectorIndex,
	table *domain.MetadataTable,
	memos []*domain.Memo,
	locations []string,
) error {
	if len(memos) == 0 {
		return nil
	}

	bodies := make([]string, len(memos))
	for i, m := range memos {
		bodies[i] = m.Body
	}
	vecs, err := c.embed(ctx, bodies)
	if err != nil {
		return err
	}

	start, err := index.Add(vecs)
	if err != nil {
		return err
	}
	if start != table.Len() {
		return fmt.Errorf("index row %d does not match table position %d", start, table.Len())
	}
	for i, m := range memos {
		table.Append(domain.NewMetaRecord(m, locations[i]))
	}
	return nil
}

// embed runs the embedder and L2-normalises the result.
func (c *IndexCoordinator) embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d texts", len(vecs), len(texts))
	}
	for i, v := range vecs {
		vecs[i] = normalize(v)
	}
	return vecs, nil
}

func (c *IndexCoordinator) persist(index driven.VectorIndex, table *domain.MetadataTable) error {
	if err := c.snapshots.Save(index, table); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

func (c *IndexCoordinator) install(index driven.VectorIndex, table *domain.MetadataTable) {
	c.index = index
	c.table = table
	if table.Len() == 0 {
		c.state = domain.IndexEmpty
	} else {
		c.state = domain.IndexReady
	}
}

// normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}
