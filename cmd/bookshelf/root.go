package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/kerbaras/bookshelf/pkg/app"
	"github.com/kerbaras/bookshelf/pkg/config"
	"github.com/kerbaras/bookshelf/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "A reading dashboard with a floating assistant",
	Long:  "Browse your books, read chapters and ask the reading assistant about them, in a TUI or from the CLI",
	Run: func(cmd *cobra.Command, args []string) {
		// Launch TUI by default
		deps := loadDeps(cmd.Context())
		defer deps.Close()

		a := app.NewApp(deps)
		if err := a.Run(); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.bookshelf/config.yaml)")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadDeps reads the config and wires the application, exiting on failure.
func loadDeps(ctx context.Context) *app.Deps {
	cfg, err := config.Load(configPath)
	cobra.CheckErr(err)

	logger, err := utils.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	cobra.CheckErr(err)
	logger.Info("starting bookshelf", zap.String("config", cfg.Path()))

	deps, err := app.NewDeps(ctx, cfg, logger)
	if err != nil {
		cobra.CheckErr(fmt.Errorf("failed to start: %w", err))
	}
	return deps
}

func truncateString(s string, n int) string {
	return ansi.Truncate(s, n, "…")
}
