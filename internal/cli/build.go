package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/pipeline"
)

func newBuildCmd() *cobra.Command {
	var (
		templatePath string
		outDir       string
		deckName     string
		fromDir      string
		artDir       string
		genArt       bool
		provider     string
		noCache      bool
		filters      filterFlags
		res          resolutionFlags
	)
	cmd := &cobra.Command{
		Use:   "build <sheet.csv>...",
		Short: "Run the whole pipeline from card sheets to deck sheets",
		Long: `Build merges the card sheets into documents, renders them, places artwork
and stitches the finished cards into deck sheets.

Output layout:
  {out}/docs     card documents
  {out}/rendered bitmaps from the render command
  {out}/art      generated artwork (--art)
  {out}/cards    cards with artwork placed
  {out}/sheets   deck_sheet_{n} images, deck.json and deck.txt

A card that fails in one stage is left out of the later ones and listed in
the summary; the command exits non-zero if any card failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			tmpl, err := document.Load(templatePath)
			if err != nil {
				return err
			}
			recs, err := loadRecords(args, &filters)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cfg, fromDir, filepath.Join(outDir, "rendered"))
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Template: tmpl,
				Records:  recs,
				OutDir:   outDir,
				DeckName: deckName,
				Build:    cfg.BuildOptions(),
				Renderer: renderer,
				ArtDir:   artDir,
				Sheets:   res.sheetOptions(cmd, cfg),
				Logger:   logger,
			}
			opts.Overlay.MarginRatio = cfg.Overlay.MarginRatio
			opts.Overlay.Fuzzy = cfg.Overlay.FuzzyMatch
			if genArt {
				gen, err := newGenerator(cfg, provider, noCache, logger)
				if err != nil {
					return err
				}
				opts.Art = gen
				opts.ArtBatch = artBatchOptions(cfg, "", "", logger)
			}

			prog := newProgress(logger)
			result, runErr := pipeline.Run(ctx, opts)
			for _, s := range result.Stages() {
				if s.Report.Total == 0 && len(s.Report.Skipped) == 0 {
					continue
				}
				printReport(cmd.OutOrStdout(), s.Name, s.Report)
			}
			if runErr != nil {
				return runErr
			}
			prog.done(fmt.Sprintf("Built %d cards on %d sheets", result.Deck.Size(), len(result.Deck.Sheets)))
			if result.Failed() {
				return fmt.Errorf("build finished with failures")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&templatePath, "template", "t", "template.json", "card template document")
	cmd.Flags().StringVarP(&outDir, "out", "o", "build", "output directory")
	cmd.Flags().StringVar(&deckName, "name", "deck", "deck name recorded in the manifest")
	cmd.Flags().StringVar(&fromDir, "from", "", "directory of bitmaps rendered ahead of time")
	cmd.Flags().StringVar(&artDir, "art-dir", "", "existing artwork to place into the cards")
	cmd.Flags().BoolVar(&genArt, "art", false, "generate artwork with the image provider")
	cmd.Flags().StringVar(&provider, "provider", "", "image provider for --art (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always call the image provider")
	cmd.MarkFlagsMutuallyExclusive("art", "art-dir")
	filters.register(cmd)
	res.register(cmd)
	return cmd
}
