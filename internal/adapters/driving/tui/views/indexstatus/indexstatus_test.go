package indexstatus

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driving"
)

type stubMemoService struct {
	driving.MemoService
	status   domain.IndexStatus
	report   *domain.ReconcileReport
	err      error
	rebuilds int
	catchUps int
}

func (s *stubMemoService) Status() domain.IndexStatus { return s.status }

func (s *stubMemoService) Rebuild(context.Context) (*domain.ReconcileReport, error) {
	s.rebuilds++
	return s.report, s.err
}

func (s *stubMemoService) CatchUp(context.Context) (*domain.ReconcileReport, error) {
	s.catchUps++
	return s.report, s.err
}

type stubSettings struct {
	driving.SettingsService
	settings *domain.AppSettings
}

func (s *stubSettings) Get() (*domain.AppSettings, error) { return s.settings, nil }

func readyStatus() domain.IndexStatus {
	return domain.IndexStatus{State: domain.IndexReady, StateName: "ready", Records: 3, Dimensions: 64, Model: "md5-hash"}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil, nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Contains(t, v.View(), "Loading...")
}

func TestView_InitLoadsStatus(t *testing.T) {
	memos := &stubMemoService{status: readyStatus()}
	settings := &stubSettings{settings: &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{Provider: domain.AIProviderHash},
		Scheduler: domain.SchedulerSettings{Enabled: true, CatchupInterval: 30 * time.Minute},
	}}
	v := NewView(nil, nil, memos, settings)

	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())

	out := v.View()
	assert.Equal(t, 3, v.Status().Records)
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, "md5-hash")
	assert.Contains(t, out, "64")
	assert.Contains(t, out, "every 30m0s")
}

func TestView_InitWithoutSettings(t *testing.T) {
	v := NewView(nil, nil, &stubMemoService{status: readyStatus()}, nil)

	v.Update(v.Init()())

	assert.NotContains(t, v.View(), "Provider")
	assert.NoError(t, v.Err())
}

func TestView_InitWithoutService(t *testing.T) {
	v := NewView(nil, nil, nil, nil)

	v.Update(v.Init()())

	assert.ErrorIs(t, v.Err(), ErrNoMemoService)
}

func TestView_DisabledSchedule(t *testing.T) {
	settings := &stubSettings{settings: &domain.AppSettings{}}
	v := NewView(nil, nil, &stubMemoService{}, settings)

	v.Update(v.Init()())

	assert.Contains(t, v.View(), "disabled")
}

func TestView_CatchUp(t *testing.T) {
	memos := &stubMemoService{status: readyStatus(), report: &domain.ReconcileReport{Added: 2, Total: 5}}
	v := NewView(nil, nil, memos, nil)

	_, cmd := v.Update(runes("c"))
	require.NotNil(t, cmd)
	assert.True(t, v.Running())
	assert.Contains(t, v.View(), "Indexing...")

	_, reload := v.Update(cmd())

	assert.Equal(t, 1, memos.catchUps)
	assert.False(t, v.Running())
	require.NotNil(t, v.Report())
	assert.Contains(t, v.View(), "Caught up: 2 added, 5 total")
	assert.NotNil(t, reload)
}

func TestView_Rebuild(t *testing.T) {
	memos := &stubMemoService{report: &domain.ReconcileReport{Added: 4, Total: 4, Full: true, Skipped: []string{"c/bad.txt"}}}
	v := NewView(nil, nil, memos, nil)

	_, cmd := v.Update(runes("R"))
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, 1, memos.rebuilds)
	out := v.View()
	assert.Contains(t, out, "Rebuilt: 4 added, 4 total")
	assert.Contains(t, out, "skipped c/bad.txt")
}

func TestView_ReindexFailure(t *testing.T) {
	memos := &stubMemoService{err: errors.New("embedder offline")}
	v := NewView(nil, nil, memos, nil)

	_, cmd := v.Update(runes("c"))
	v.Update(cmd())

	assert.EqualError(t, v.Err(), "embedder offline")
	assert.Nil(t, v.Report())
	assert.Contains(t, v.View(), "Error: embedder offline")
}

func TestView_ReindexIgnoredWhileRunning(t *testing.T) {
	v := NewView(nil, nil, &stubMemoService{}, nil)

	_, first := v.Update(runes("c"))
	_, second := v.Update(runes("R"))

	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := NewView(nil, nil, nil, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
