package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/tui"
)

// runProgram runs the app. Tests replace it to avoid taking over the terminal.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Search memos, read them in full, write new ones and catch up or rebuild the
index, all with the keyboard. The periodic catch-up runs while the TUI is open.

Controls:
  ↑/k, ↓/j  - Navigate
  Enter     - Search / Open
  Tab       - Next field in the new-memo form
  Ctrl+S    - Save a memo
  Esc       - Back
  ?         - Help
  q         - Quit (from the menu)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	memos, err := requireMemoService()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(memos, settingsService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	stopBackground := startBackground(cmd.Context(), backgroundOptions{
		scheduler: appSettings.Scheduler.Enabled,
		watcher:   appSettings.Watch.Enabled,
	})
	defer stopBackground()

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
