package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

var (
	createCategory string
	createTitle    string
	createTags     string
	createBody     string
	createJSON     bool
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var createCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"new", "add"},
	Short:   "Create a memo",
	Long: `Creates a memo and adds it to the search index.

When --body is omitted and stdin is not a terminal, the body is read from stdin.`,
	Example: `  memo create -c work -t "Standup" --tags daily,team -b "Shipped the release"
  git log -1 --format=%B | memo create -c dev -t "Last commit"`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createCategory, "category", "c", "", "memo category (required)")
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "memo title (required)")
	createCmd.Flags().StringVar(&createTags, "tags", "", "comma-separated tags")
	createCmd.Flags().StringVarP(&createBody, "body", "b", "", "memo body (default: read stdin)")
	createCmd.Flags().BoolVar(&createJSON, "json", false, "output the created memo as JSON")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, _ []string) error {
	memos, err := requireMemoService()
	if err != nil {
		return err
	}

	body := createBody
	if body == "" && !stdinIsTerminal() {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read body from stdin: %w", err)
		}
		body = string(data)
	}

	path, memo, err := memos.Create(cmd.Context(), domain.CreateMemoRequest{
		Category: createCategory,
		Title:    createTitle,
		Tags:     createTags,
		Body:     body,
	})
	if err != nil {
		if memo != nil {
			// Written but not indexed; the next catch-up adds it.
			cmd.PrintErrf("Saved %s but indexing failed.\n", path)
		}
		return fmt.Errorf("create failed: %w", err)
	}

	if createJSON {
		data, err := json.MarshalIndent(map[string]string{
			"message": "saved",
			"path":    path,
			"uuid":    memo.ID,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Saved memo %s\n", memo.ID)
	cmd.Printf("  Category: %s\n", memo.Category)
	if tags := memo.TagList(); len(tags) > 0 {
		cmd.Printf("  Tags: %s\n", strings.Join(tags, ", "))
	}
	cmd.Printf("  Path: %s\n", path)
	return nil
}
