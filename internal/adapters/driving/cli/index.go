package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Maintain the search index",
	Long: `Commands for the vector index kept alongside the memo files.

The index normally stays current on its own. Use 'catchup' after copying memo
files in by hand, and 'rebuild' after changing the embedding provider.`,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Re-embed every memo and replace the index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		memos, err := requireMemoService()
		if err != nil {
			return err
		}
		cmd.Println("Rebuilding index...")
		start := time.Now()
		report, err := memos.Rebuild(cmd.Context())
		if err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
		printReport(cmd, report, time.Since(start))
		return nil
	},
}

var indexCatchupCmd = &cobra.Command{
	Use:   "catchup",
	Short: "Add memos that are not yet indexed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		memos, err := requireMemoService()
		if err != nil {
			return err
		}
		start := time.Now()
		report, err := memos.CatchUp(cmd.Context())
		if err != nil {
			return fmt.Errorf("catch-up failed: %w", err)
		}
		printReport(cmd, report, time.Since(start))
		return nil
	},
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and background task status",
	Args:  cobra.NoArgs,
	RunE:  runIndexStatus,
}

func init() {
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexCatchupCmd)
	indexCmd.AddCommand(indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func printReport(cmd *cobra.Command, report *domain.ReconcileReport, elapsed time.Duration) {
	cmd.Printf("Indexed %d new memo(s); %d total (%s).\n", report.Added, report.Total, elapsed.Round(time.Millisecond))
	if len(report.Skipped) > 0 {
		cmd.Printf("Skipped %d unreadable file(s):\n", len(report.Skipped))
		for _, loc := range report.Skipped {
			cmd.Printf("  %s\n", loc)
		}
	}
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
	memos, err := requireMemoService()
	if err != nil {
		return err
	}

	status := memos.Status()
	cmd.Println("[Index]")
	cmd.Printf("  State: %s\n", status.State)
	cmd.Printf("  Records: %d\n", status.Records)
	if status.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", status.Dimensions)
	}
	cmd.Printf("  Model: %s\n", status.Model)
	if memoDir != "" {
		cmd.Printf("  Memo directory: %s\n", memoDir)
	}

	if scheduler == nil {
		return nil
	}
	tasks, err := scheduler.Tasks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println("[Scheduled Tasks]")
	for i := range tasks {
		t := &tasks[i]
		state := "disabled"
		if t.Enabled {
			state = "every " + t.Interval.String()
		}
		cmd.Printf("  %s (%s)\n", t.Name, state)
		cmd.Printf("    Last run: %s\n", formatTime(t.LastRun))
		if t.Enabled {
			cmd.Printf("    Next run: %s\n", formatTime(t.NextRun))
		}
		if t.LastError != "" {
			cmd.Printf("    Last error: %s\n", t.LastError)
		}
		history, err := scheduler.History(cmd.Context(), t.ID, 1)
		if err != nil {
			return fmt.Errorf("failed to read task history: %w", err)
		}
		if len(history) > 0 {
			cmd.Printf("    Last result: %s\n", history[0].Summary())
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
