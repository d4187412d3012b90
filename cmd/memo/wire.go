package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/memo-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/memo-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/memo-cli/internal/adapters/driven/storage/memofs"
	"github.com/custodia-labs/memo-cli/internal/adapters/driven/storage/snapshot"
	"github.com/custodia-labs/memo-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/memo-cli/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/memo-cli/internal/adapters/driven/watcher"
	"github.com/custodia-labs/memo-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/memo-cli/internal/core/services"
	"github.com/custodia-labs/memo-cli/internal/logger"
)

// Layout of the data directory.
const (
	memoDirName = "memos"
	dataDirName = "data"
)

// bootstrap builds the service graph for a data directory. A missing or
// misconfigured embedding provider leaves the memo service unset so that
// the settings commands still work.
func bootstrap(home string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	memoDir := filepath.Join(home, memoDirName)
	memoStore, err := memofs.New(memoDir)
	if err != nil {
		return nil, fmt.Errorf("memo store: %w", err)
	}

	db, err := sqlite.NewStore(filepath.Join(home, dataDirName))
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	out := &cli.Services{
		Settings:    settingsService,
		AppSettings: *settings,
		MemoDir:     memoDir,
	}

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("embedding provider unavailable: %v", err)
		out.Close = db.Close
		return out, nil
	}

	coordinator := services.NewIndexCoordinator(
		memoStore,
		snapshot.New(filepath.Join(memoDir, snapshot.DirName), flat.Factory{}),
		flat.Factory{},
		embedder,
	)
	memoService := services.NewMemoService(memoStore, coordinator)
	memoWatcher := watcher.New(memoDir, settings.Watch.Debounce)

	out.Memo = memoService
	out.Scheduler = services.NewScheduler(settings.Scheduler, db.SchedulerStore(), memoService)
	out.Watcher = memoWatcher
	out.Close = func() error {
		// Let a background catch-up finish writing its snapshot.
		memoService.Wait()
		return errors.Join(memoWatcher.Close(), db.Close())
	}
	return out, nil
}
