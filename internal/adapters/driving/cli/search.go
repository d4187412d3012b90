package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// defaultTerminalWidth is used when stdout is not a terminal.
const defaultTerminalWidth = 80

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search memos by meaning",
	Long: `Ranks every memo by semantic similarity to the query and prints the best
matches. Scores are in (0, 1], where 1 is an exact match.

Use --limit 0 to list every memo in ranked order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results (0 = all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	memos, err := requireMemoService()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	results, err := memos.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(map[string]any{"results": results}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	width := terminalWidth(cmd)

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, r.Title, r.Score)

		meta := r.Category
		if r.Tags != "" {
			meta += " | " + r.Tags
		}
		if !r.CreatedAt.IsZero() {
			meta += " | " + r.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		cmd.Printf("      %s\n", meta)

		if snippet := oneLine(r.Snippet); snippet != "" {
			cmd.Printf("      %s\n", truncate(snippet, width-6))
		}
		cmd.Println()
	}

	return nil
}

// terminalWidth returns the width of the command's output terminal.
func terminalWidth(cmd *cobra.Command) int {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

// oneLine collapses runs of whitespace, newlines included, into single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if width < 4 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}
