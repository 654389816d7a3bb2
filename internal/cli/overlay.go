package cli

import (
	"github.com/spf13/cobra"

	"github.com/youruser/cardforge/internal/cards"
	imagepkg "github.com/youruser/cardforge/internal/image"
)

func newOverlayCmd() *cobra.Command {
	var (
		outDir string
		docDir string
		margin float64
		exact  bool
	)
	cmd := &cobra.Command{
		Use:   "overlay <art-dir> <base-dir>",
		Short: "Place artwork into rendered card frames",
		Long: `Overlay matches art files to base card images by file name and draws the
art underneath each frame.

With --docs, the Art bounds recorded in "{docs}/{name}.json" decide where the
art goes; otherwise it is centred inside a margin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			if !cmd.Flags().Changed("margin") {
				margin = cfg.Overlay.MarginRatio
			}
			opts := imagepkg.OverlayBatchOptions{
				ArtDir:      args[0],
				BaseDir:     args[1],
				OutDir:      outDir,
				MarginRatio: margin,
				Fuzzy:       cfg.Overlay.FuzzyMatch && !exact,
				Logger:      loggerFromContext(ctx),
			}
			if docDir != "" {
				opts.Bounds = imagepkg.BoundsFromDocuments(docDir, cards.FieldArt)
			}

			report := imagepkg.OverlayBatch(opts)
			printReport(cmd.OutOrStdout(), "overlay", report)
			return reportErr("overlay", report)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: overwrite the bases)")
	cmd.Flags().StringVar(&docDir, "docs", "", "card documents holding the Art bounds")
	cmd.Flags().Float64Var(&margin, "margin", imagepkg.DefaultMarginRatio, "margin ratio for centred placement")
	cmd.Flags().BoolVar(&exact, "exact", false, "only match art whose name equals the card's")
	return cmd
}
