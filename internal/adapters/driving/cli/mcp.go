package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memo-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search,
create and list memos.

By default the server speaks JSON-RPC over stdio. Use --port to serve the
streamable HTTP transport instead, for the MCP Inspector or remote clients.

Examples:
  # Stdio mode (default)
  memo mcp serve

  # HTTP mode
  memo mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "memo": {
        "command": "/path/to/memo",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	memos, err := requireMemoService()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Memos: memos})
	if err != nil {
		return err
	}

	if port > 0 {
		stopBackground := startBackground(cmd.Context(), backgroundOptions{
			scheduler: appSettings.Scheduler.Enabled,
			watcher:   appSettings.Watch.Enabled,
		})
		defer stopBackground()

		addr := fmt.Sprintf(":%d", port)
		// stdout carries the protocol in stdio mode, so only HTTP mode prints.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
