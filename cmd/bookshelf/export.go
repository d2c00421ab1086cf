package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [book-id...]",
	Short: "Export books to EPUB",
	Long:  "Write each book, with its cover when one can be fetched, to an EPUB file",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deps := loadDeps(cmd.Context())
		defer deps.Close()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for p := range deps.Exporter.Progress() {
				switch p.Status {
				case "exporting":
					fmt.Printf("📥 Exporting %s...\n", p.Title)
				case "complete":
					fmt.Printf("✅ %s → %s\n", p.Title, p.Path)
				case "error":
					fmt.Printf("❌ %s: %v\n", p.BookID, p.Error)
				}
			}
		}()

		paths, err := deps.Exporter.ExportBooks(cmd.Context(), args)
		deps.Exporter.Close()
		<-done

		fmt.Printf("\n📚 Exported %d of %d books\n", len(paths), len(args))
		if err != nil {
			cobra.CheckErr(fmt.Errorf("export failed: %w", err))
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
