package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memo-cli/internal/logger"
)

// Ensure MemoService implements the interface.
var _ driving.MemoService = (*MemoService)(nil)

// MemoService writes memos and answers queries through the index coordinator.
type MemoService struct {
	memos driven.MemoStore
	index driving.IndexCoordinator

	// now and newID are swapped in tests.
	now   func() time.Time
	newID func() string

	// Background catch-up. A trigger while one runs sets pending, and the
	// running goroutine loops once more instead of a second one starting.
	bgMu      sync.Mutex
	bgRunning bool
	bgPending bool
	bgWG      sync.WaitGroup
	bgCtx     context.Context
}

// NewMemoService creates a memo service.
func NewMemoService(memos driven.MemoStore, index driving.IndexCoordinator) *MemoService {
	return &MemoService{
		memos: memos,
		index: index,
		now:   time.Now,
		newID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
		bgCtx: context.Background(),
	}
}

// Create validates req, writes the memo file and incorporates it.
// The returned error is non-nil if either step fails; a memo that was
// written but not indexed is picked up by the next catch-up.
func (s *MemoService) Create(ctx context.Context, req domain.CreateMemoRequest) (string, *domain.Memo, error) {
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	memo := &domain.Memo{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		Category:  strings.TrimSpace(req.Category),
		Title:     strings.TrimSpace(req.Title),
		Tags:      strings.TrimSpace(req.Tags),
		Body:      strings.TrimSpace(req.Body),
	}

	location, err := s.memos.Write(ctx, memo)
	if err != nil {
		return "", nil, fmt.Errorf("create memo: %w", err)
	}
	path := s.memos.Path(location)
	logger.Debug("wrote memo %s to %s", memo.ID, path)

	if err := s.index.Incorporate(ctx, memo, location); err != nil {
		return path, memo, fmt.Errorf("create memo: saved to %s but not indexed: %w", path, err)
	}
	return path, memo, nil
}

// Search ranks memos against query. limit <= 0 returns every memo.
func (s *MemoService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search: %w: query is required", domain.ErrInvalidInput)
	}
	logger.Section("Search")
	logger.Debug("query=%q limit=%d", query, limit)

	results, err := s.index.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return results, nil
}

// ListCategories returns the distinct categories, sorted.
func (s *MemoService) ListCategories(ctx context.Context) ([]string, error) {
	return s.index.Categories(ctx)
}

// ListTags returns the distinct tags, sorted.
func (s *MemoService) ListTags(ctx context.Context) ([]string, error) {
	return s.index.Tags(ctx)
}

// Rebuild runs a full reconcile.
func (s *MemoService) Rebuild(ctx context.Context) (*domain.ReconcileReport, error) {
	return s.index.Reconcile(ctx)
}

// CatchUp runs an incremental reconcile in the caller's goroutine.
func (s *MemoService) CatchUp(ctx context.Context) (*domain.ReconcileReport, error) {
	return s.index.ReconcileIncremental(ctx)
}

// Status reports the index state.
func (s *MemoService) Status() domain.IndexStatus {
	return s.index.Status()
}

// TriggerReconcileIncremental starts a catch-up in the background.
func (s *MemoService) TriggerReconcileIncremental() {
	s.bgMu.Lock()
	defer s.bgMu.Unlock()

	if s.bgRunning {
		s.bgPending = true
		logger.Debug("catch-up already running; queued one more pass")
		return
	}
	s.bgRunning = true
	s.bgWG.Add(1)
	go s.runCatchUp()
}

func (s *MemoService) runCatchUp() {
	defer s.bgWG.Done()

	for {
		report, err := s.index.ReconcileIncremental(s.bgCtx)
		if err != nil {
			logger.Error("background catch-up failed: %v", err)
		} else {
			logger.Info("background catch-up: %d added, %d skipped", report.Added, len(report.Skipped))
		}

		s.bgMu.Lock()
		if !s.bgPending {
			s.bgRunning = false
			s.bgMu.Unlock()
			return
		}
		s.bgPending = false
		s.bgMu.Unlock()
	}
}

// Wait blocks until background catch-ups have finished.
func (s *MemoService) Wait() {
	s.bgWG.Wait()
}
