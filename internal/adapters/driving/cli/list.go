package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List memo categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		memos, err := requireMemoService()
		if err != nil {
			return err
		}
		return printList(cmd, "categories", memos.ListCategories)
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List memo tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		memos, err := requireMemoService()
		if err != nil {
			return err
		}
		return printList(cmd, "tags", memos.ListTags)
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(tagsCmd)
}

func printList(cmd *cobra.Command, noun string, list func(context.Context) ([]string, error)) error {
	values, err := list(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", noun, err)
	}
	if len(values) == 0 {
		cmd.Printf("No %s.\n", noun)
		return nil
	}
	for _, v := range values {
		cmd.Println(v)
	}
	return nil
}
