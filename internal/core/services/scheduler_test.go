package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
)

// --- Mock implementations for scheduler testing ---

// mockSchedulerStore implements driven.SchedulerStore for testing.
type mockSchedulerStore struct {
	mu       sync.RWMutex
	tasks    map[string]*domain.ScheduledTask
	results  map[string][]domain.TaskResult
	saveErr  error
	listErr  error
	getErr   error
	pruneErr error
	pruned   int
}

func newMockSchedulerStore() *mockSchedulerStore {
	return &mockSchedulerStore{
		tasks:   make(map[string]*domain.ScheduledTask),
		results: make(map[string][]domain.TaskResult),
	}
}

func (m *mockSchedulerStore) GetTask(_ context.Context, taskID string) (*domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	task, exists := m.tasks[taskID]
	if !exists {
		return nil, nil
	}
	taskCopy := *task
	return &taskCopy, nil
}

func (m *mockSchedulerStore) ListTasks(_ context.Context) ([]domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	tasks := make([]domain.ScheduledTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *mockSchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	taskCopy := *task
	m.tasks[task.ID] = &taskCopy
	return nil
}

func (m *mockSchedulerStore) RecordResult(_ context.Context, result *domain.TaskResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.TaskID] = append([]domain.TaskResult{*result}, m.results[result.TaskID]...)
	return nil
}

func (m *mockSchedulerStore) GetTaskHistory(_ context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := m.results[taskID]
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return append([]domain.TaskResult(nil), results...), nil
}

func (m *mockSchedulerStore) PruneHistory(_ context.Context, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned++
	return m.pruneErr
}

// mockMemoService counts catch-ups; every other method is unused here.
type mockMemoService struct {
	driving.MemoService

	mu       sync.Mutex
	catchUps int
	added    int
	err      error
}

func (m *mockMemoService) CatchUp(context.Context) (*domain.ReconcileReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catchUps++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ReconcileReport{Added: m.added, Total: m.added + 1, Skipped: []string{"c/broken.txt"}}, nil
}

func (m *mockMemoService) CatchUpCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catchUps
}

var _ driven.SchedulerStore = (*mockSchedulerStore)(nil)

// ==================== Scheduler Tests ====================

func TestNewScheduler(t *testing.T) {
	settings := domain.DefaultAppSettings().Scheduler
	scheduler := NewScheduler(settings, newMockSchedulerStore(), &mockMemoService{})

	require.NotNil(t, scheduler)
	assert.Equal(t, settings, scheduler.settings)
	assert.Equal(t, time.Minute, scheduler.tick)
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler(domain.DefaultAppSettings().Scheduler, newMockSchedulerStore(), &mockMemoService{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- scheduler.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, scheduler.Stop())
	assert.NoError(t, <-done)
}

func TestScheduler_StartReturnsOnCancel(t *testing.T) {
	scheduler := NewScheduler(domain.DefaultAppSettings().Scheduler, newMockSchedulerStore(), &mockMemoService{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- scheduler.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	scheduler := NewScheduler(domain.DefaultAppSettings().Scheduler, newMockSchedulerStore(), &mockMemoService{})

	require.NoError(t, scheduler.Stop())
}

func TestScheduler_DoubleStart(t *testing.T) {
	scheduler := NewScheduler(domain.DefaultAppSettings().Scheduler, newMockSchedulerStore(), &mockMemoService{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = scheduler.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)

	// Second start returns immediately.
	assert.NoError(t, scheduler.Start(context.Background()))

	scheduler.Stop() //nolint:errcheck
	wg.Wait()
}

func TestScheduler_EnsureTask_Creates(t *testing.T) {
	store := newMockSchedulerStore()
	settings := domain.DefaultAppSettings().Scheduler
	scheduler := NewScheduler(settings, store, &mockMemoService{})
	ctx := context.Background()

	require.NoError(t, scheduler.ensureTask(ctx))

	task, err := store.GetTask(ctx, domain.TaskIDIndexCatchup)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "Index Catch-up", task.Name)
	assert.Equal(t, settings.CatchupInterval, task.Interval)
	assert.True(t, task.Enabled)
	assert.True(t, task.NextRun.After(time.Now()))
}

func TestScheduler_EnsureTask_UpdatesInterval(t *testing.T) {
	store := newMockSchedulerStore()
	ctx := context.Background()

	first := NewScheduler(domain.SchedulerSettings{Enabled: true, CatchupInterval: time.Hour}, store, &mockMemoService{})
	require.NoError(t, first.ensureTask(ctx))

	second := NewScheduler(domain.SchedulerSettings{Enabled: true, CatchupInterval: 2 * time.Hour}, store, &mockMemoService{})
	require.NoError(t, second.ensureTask(ctx))

	task, err := store.GetTask(ctx, domain.TaskIDIndexCatchup)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, task.Interval)
}

func TestScheduler_EnsureTask_Disabled(t *testing.T) {
	store := newMockSchedulerStore()
	scheduler := NewScheduler(domain.SchedulerSettings{Enabled: false, CatchupInterval: time.Hour}, store, &mockMemoService{})
	ctx := context.Background()

	require.NoError(t, scheduler.ensureTask(ctx))

	task, err := store.GetTask(ctx, domain.TaskIDIndexCatchup)
	require.NoError(t, err)
	assert.False(t, task.Enabled)
}

func TestScheduler_EnsureTask_StoreError(t *testing.T) {
	store := newMockSchedulerStore()
	store.getErr = errors.New("database locked")
	scheduler := NewScheduler(domain.DefaultAppSettings().Scheduler, store, &mockMemoService{})

	assert.Error(t, scheduler.ensureTask(context.Background()))
}

func TestScheduler_CheckAndRunDueTasks(t *testing.T) {
	store := newMockSchedulerStore()
	memos := &mockMemoService{added: 3}
	scheduler := NewScheduler(domain.DefaultAppSettings().Scheduler, store, memos)
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID:       domain.TaskIDIndexCatchup,
		Name:     "Index Catch-up",
		Interval: time.Hour,
		NextRun:  time.Now().Add(-time.Minute),
		Enabled:  true,
	}))

	scheduler.checkAndRunDueTasks(ctx)

	assert.Equal(t, 1, memos.CatchUpCount())

	task, err := store.GetTask(ctx, domain.TaskIDIndexCatchup)
	require.NoError(t, err)
	assert.Empty(t, task.LastError)
	assert.False(t, task.LastSuccess.IsZero())
	assert.True(t, task.NextRun.After(time.Now().Add(59*time.Minute)))

	history, err := store.GetTaskHistory(ctx, domain.TaskIDIndexCatchup, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
	assert.Equal(t, 3, history[0].Added)
	assert.Equal(t, 4, history[0].Total)
	assert.Equal(t, 1, history[0].Skipped)
	assert.Equal(t, 1, store.pruned)

	fromScheduler, err := scheduler.History(ctx, domain.TaskIDIndexCatchup, 1)
	require.NoError(t, err)
	assert.Equal(t, history, fromScheduler)
}

func TestScheduler_CheckAndRunDueTasks_SkipsNotDueAndDisabled(t *testing.T) {
	store := newMockSchedulerStore()
	memos := &mockMemoService{}
	scheduler := NewScheduler(domain.DefaultAppSettings().Scheduler, store, memos)
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID:      domain.TaskIDIndexCatchup,
		NextRun: time.Now().Add(time.Hour),
		Enabled: true,
	}))
	scheduler.checkAndRunDueTasks(ctx)
	assert.Equal(t, 0, memos.CatchUpCount())

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID:      domain.TaskIDIndexCatchup,
		NextRun: time.Now().Add(-time.Hour),
		Enabled: false,
	}))
	scheduler.checkAndRunDueTasks(ctx)
	assert.Equal(t, 0, memos.CatchUpCount())
}

func TestScheduler_RunTask_RecordsFailure(t *testing.T) {
	store := newMockSchedulerStore()
	memos := &mockMemoService{err: errors.New("embedder offline")}
	scheduler := NewScheduler(domain.DefaultAppSettings().Scheduler, store, memos)
	ctx := context.Background()

	task := &domain.ScheduledTask{ID: domain.TaskIDIndexCatchup, Interval: time.Hour, Enabled: true}
	scheduler.runTask(ctx, task)

	saved, err := store.GetTask(ctx, domain.TaskIDIndexCatchup)
	require.NoError(t, err)
	assert.Equal(t, "embedder offline", saved.LastError)
	assert.True(t, saved.LastSuccess.IsZero())

	history, err := store.GetTaskHistory(ctx, domain.TaskIDIndexCatchup, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)
	assert.Equal(t, "embedder offline", history[0].Error)
}

func TestScheduler_RunTask_UnknownTaskID(t *testing.T) {
	store := newMockSchedulerStore()
	scheduler := NewScheduler(domain.DefaultAppSettings().Scheduler, store, &mockMemoService{})

	// Logs and returns without touching the store.
	scheduler.runTask(context.Background(), &domain.ScheduledTask{ID: "unknown-task", Enabled: true})
	scheduler.wg.Wait()

	assert.Empty(t, store.results)
}

func TestScheduler_StartRunsDueTaskImmediately(t *testing.T) {
	store := newMockSchedulerStore()
	memos := &mockMemoService{}
	scheduler := NewScheduler(domain.SchedulerSettings{Enabled: true, CatchupInterval: time.Hour}, store, memos)
	scheduler.tick = 10 * time.Millisecond
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID:       domain.TaskIDIndexCatchup,
		Interval: time.Hour,
		NextRun:  time.Now().Add(-time.Minute),
		Enabled:  true,
	}))

	go func() { _ = scheduler.Start(ctx) }()
	require.Eventually(t, func() bool { return memos.CatchUpCount() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, scheduler.Stop())

	tasks, err := scheduler.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].LastRun.IsZero())
}
