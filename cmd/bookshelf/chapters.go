package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	purple = lipgloss.Color("99")

	headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// newTable returns the borderless table the listing commands share.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...)
}

var chaptersCmd = &cobra.Command{
	Use:   "chapters [book-id]",
	Short: "List the chapters of a book",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deps := loadDeps(cmd.Context())
		defer deps.Close()

		book, err := deps.Catalogue.GetBook(args[0])
		cobra.CheckErr(err)

		if len(book.Chapters) == 0 {
			fmt.Printf("📖 %s has no chapters.\n", book.Title)
			return
		}

		t := newTable("#", "ID", "Title", "Words")
		for i, ch := range book.Chapters {
			t.Row(fmt.Sprintf("%d", i+1), ch.ID, truncateString(ch.Title, 48), humanize.Comma(int64(wordCount(ch.Content))))
		}

		fmt.Printf("\n📖 %s by %s\n\n", book.Title, book.Author)
		fmt.Println(t)
	},
}

func wordCount(text string) int {
	n, inWord := 0, false
	for _, r := range text {
		space := r == ' ' || r == '\n' || r == '\t'
		if !space && !inWord {
			n++
		}
		inWord = !space
	}
	return n
}

func init() {
	rootCmd.AddCommand(chaptersCmd)
}
