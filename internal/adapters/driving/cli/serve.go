package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/httpapi"
)

// shutdownTimeout bounds how long in-flight requests get on exit.
const shutdownTimeout = 10 * time.Second

var (
	serveAddr        string
	serveWatch       bool
	serveNoScheduler bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Starts the JSON HTTP API used by the web front end.

Endpoints:
  POST /api/memo                         create a memo (category, title, tags, body)
  POST /api/search                       search (query, k)
  GET  /api/categories                   list categories
  GET  /api/tags                         list tags
  POST /api/admin/incremental-vectorize  index new memo files in the background
  POST /api/admin/rebuild                rebuild the index
  GET  /api/admin/status                 index status

The periodic catch-up runs while serving unless --no-scheduler is given.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "watch the memo directory for new files")
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "disable the periodic catch-up")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	memos, err := requireMemoService()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := httpapi.NewServer(memos)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = appSettings.Server.Addr
	}
	if err := server.Start(addr); err != nil {
		return err
	}
	cmd.Printf("Serving memo API on http://%s\n", server.Addr())

	stopBackground := startBackground(ctx, backgroundOptions{
		scheduler: !serveNoScheduler && appSettings.Scheduler.Enabled,
		watcher:   serveWatch || appSettings.Watch.Enabled,
	})
	defer stopBackground()

	<-ctx.Done()
	cmd.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
