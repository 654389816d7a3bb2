package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/youruser/cardforge/internal/config"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the cardforge CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "cardforge",
		Short:        "cardforge turns card spreadsheets into print-ready deck sheets",
		Long:         `cardforge merges spreadsheet rows into card templates, renders and dresses them with artwork, and stitches the results into paginated deck sheets.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				color.NoColor = true
			}

			// config commands manage the file themselves
			cfg := config.Default()
			if cmd.Parent() == nil || cmd.Parent().Name() != "config" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("cardforge %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/cardforge/config.toml)")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newArtCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newOverlayCmd())
	root.AddCommand(newStitchCmd())
	root.AddCommand(newSheetsCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newConfigCmd(&configPath))
	return root
}
