package cmd

import (
	"fmt"
	"strings"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [book-id] [question]",
	Short: "Ask the reading assistant about a book",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		deps := loadDeps(cmd.Context())
		defer deps.Close()

		book, err := deps.Catalogue.GetBook(args[0])
		cobra.CheckErr(err)

		chapterID, _ := cmd.Flags().GetString("chapter")
		var chapter data.Chapter
		for i, ch := range book.Chapters {
			if i == 0 || ch.ID == chapterID {
				chapter = ch
			}
		}
		if chapterID != "" && chapter.ID != chapterID {
			cobra.CheckErr(fmt.Errorf("chapter %s: %w", chapterID, data.ErrNotFound))
		}

		ctrl := deps.Controller(book, chapter)
		if err := ctrl.Chat.Send(cmd.Context(), strings.Join(args[1:], " ")); err != nil {
			cobra.CheckErr(err)
		}

		transcript := ctrl.Chat.Transcript()
		fmt.Println(transcript[len(transcript)-1].Text)
	},
}

func init() {
	askCmd.Flags().StringP("chapter", "c", "", "Chapter id to ask about (default first chapter)")

	rootCmd.AddCommand(askCmd)
}
