package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Index memo files as they appear",
	Long: `Watches the memo directory and runs a catch-up shortly after memo files are
added or changed by other tools. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	memos, err := requireMemoService()
	if err != nil {
		return err
	}
	if memoWatcher == nil {
		return errors.New("watcher not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick up anything written while nobody was watching.
	if report, err := memos.CatchUp(ctx); err != nil {
		cmd.PrintErrf("Initial catch-up failed: %v\n", err)
	} else if report.Added > 0 {
		cmd.Printf("Indexed %d new memo(s).\n", report.Added)
	}

	if memoDir != "" {
		cmd.Printf("Watching %s (Ctrl+C to stop)\n", memoDir)
	}

	return memoWatcher.Watch(ctx, func() {
		report, err := memos.CatchUp(context.WithoutCancel(ctx))
		if err != nil {
			cmd.PrintErrf("Catch-up failed: %v\n", err)
			return
		}
		if report.Added > 0 {
			cmd.Printf("Indexed %d new memo(s); %d total.\n", report.Added, report.Total)
		}
	})
}
