package cli

import (
	"context"
	"sync"

	"github.com/custodia-labs/memo-cli/internal/logger"
)

// backgroundOptions selects the long-running helpers to start.
type backgroundOptions struct {
	scheduler bool
	watcher   bool
}

// startBackground starts the scheduler and watcher for long-running
// commands. The returned function stops both and waits for any catch-up
// they triggered.
func startBackground(ctx context.Context, opts backgroundOptions) func() {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	sched, memos, watcher := scheduler, memoService, memoWatcher
	if !opts.scheduler {
		sched = nil
	}

	if sched != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sched.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("scheduler stopped: %v", err)
			}
		}()
	}

	if opts.watcher && watcher != nil && memos != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Watch(ctx, memos.TriggerReconcileIncremental); err != nil {
				logger.Error("watcher stopped: %v", err)
			}
		}()
	}

	return func() {
		cancel()
		if sched != nil {
			if err := sched.Stop(); err != nil {
				logger.Warn("scheduler stop error: %v", err)
			}
		}
		wg.Wait()
		if memos != nil {
			memos.Wait()
		}
	}
}
