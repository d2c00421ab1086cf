package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalogue",
	Long:  "Search book titles, authors and chapter text",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deps := loadDeps(cmd.Context())
		defer deps.Close()

		query := strings.Join(args, " ")
		results := deps.Catalogue.Search(query)
		if len(results) == 0 {
			fmt.Println("No results found.")
			return
		}

		t := newTable("#", "Book", "Chapter", "Match")
		for i, hit := range results {
			t.Row(fmt.Sprintf("%d", i+1), truncateString(hit.Book.Title, 30), hit.Chapter, truncateString(hit.Snippet, 58))
		}

		fmt.Println(t)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
