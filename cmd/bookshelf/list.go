package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the books in the catalogue",
	Long:  "Display every catalogue book with its reading progress in a formatted table",
	Run: func(cmd *cobra.Command, args []string) {
		deps := loadDeps(cmd.Context())
		defer deps.Close()

		books := deps.Catalogue.GetAllBooks()
		if len(books) == 0 {
			fmt.Println("📚 The catalogue is empty.")
			return
		}

		columns := []table.Column{
			{Title: "ID", Width: 6},
			{Title: "Title", Width: 32},
			{Title: "Author", Width: 20},
			{Title: "Chapters", Width: 10},
			{Title: "Pages", Width: 8},
			{Title: "Progress", Width: 10},
		}

		rows := []table.Row{}
		for _, book := range books {
			rows = append(rows, table.Row{
				book.ID,
				truncateString(book.Title, 30),
				truncateString(book.Author, 18),
				fmt.Sprintf("%d", len(book.Chapters)),
				humanize.Comma(int64(book.Pages)),
				fmt.Sprintf("%d%%", book.Progress),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📚 Catalogue (%d books)\n\n", len(books))
		fmt.Println(t.View())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
