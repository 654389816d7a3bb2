package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/youruser/cardforge/internal/config"
	"github.com/youruser/cardforge/internal/deck"
	imagepkg "github.com/youruser/cardforge/internal/image"
)

type resolutionFlags struct {
	preset string
	width  int
}

func (f *resolutionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "output resolution preset (1080p, 2k, 4k, ...)")
	cmd.Flags().IntVar(&f.width, "width", 0, "output width in pixels; beats --preset")
}

// sheetOptions applies the command flags on top of the configured options.
func (f *resolutionFlags) sheetOptions(cmd *cobra.Command, cfg *config.Config) imagepkg.SheetOptions {
	opts := cfg.SheetOptions()
	if f.preset != "" || f.width != 0 {
		opts.Target = imagepkg.Target{Preset: f.preset, Width: f.width}
	}
	opts.Logger = loggerFromContext(cmd.Context())
	return opts
}

func newStitchCmd() *cobra.Command {
	var (
		out     string
		rows    int
		cols    int
		maxCols int
		res     resolutionFlags
	)
	cmd := &cobra.Command{
		Use:   "stitch <image-dir>",
		Short: "Compose every image in a directory into one grid",
		Long: `Stitch lays the images of a directory out in name order on a single grid.

Without --rows and --cols the grid is sized automatically, at most --max-cols
wide. Empty cells are filled with the placeholder colour.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := res.sheetOptions(cmd, configFromContext(cmd.Context()))
			if rows <= 0 || cols <= 0 {
				report := imagepkg.AutoStitch(args[0], out, maxCols, opts)
				printReport(cmd.OutOrStdout(), "stitch", report)
				return reportErr("stitch", report)
			}
			paths, err := imagepkg.ListImages(args[0])
			if err != nil {
				return err
			}
			report := imagepkg.StitchFiles(paths, rows, cols, out, opts)
			printReport(cmd.OutOrStdout(), "stitch", report)
			return reportErr("stitch", report)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "grid.png", "output image")
	cmd.Flags().IntVar(&rows, "rows", 0, "grid rows")
	cmd.Flags().IntVar(&cols, "cols", 0, "grid columns")
	cmd.Flags().IntVar(&maxCols, "max-cols", imagepkg.DefaultSheetCols, "column limit for automatic layout")
	res.register(cmd)
	return cmd
}

func newSheetsCmd() *cobra.Command {
	var (
		outDir   string
		deckName string
		perSheet int
		cols     int
		ext      string
		qrSize   int
		res      resolutionFlags
	)
	cmd := &cobra.Command{
		Use:   "sheets <card-dir>",
		Short: "Paginate card images into deck sheets",
		Long: `Sheets splits the card images of a directory into deck_sheet_{n} files of at
most --per-sheet cards each and writes a deck.json manifest and a deck.txt
card list next to them. With --qr a QR code of the card list is saved too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			opts := res.sheetOptions(cmd, configFromContext(ctx))
			if perSheet > 0 {
				opts.Pagination.CardsPerSheet = perSheet
			}
			if cols > 0 {
				opts.Pagination.Cols = cols
			}
			if ext != "" {
				opts.Ext = ext
			}

			paths, err := imagepkg.ListImages(args[0])
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no images in %s", args[0])
			}

			prog := newProgress(logger)
			report := imagepkg.BuildSheets(paths, outDir, opts)
			prog.done(fmt.Sprintf("Wrote %d sheets", report.Succeeded))
			printReport(cmd.OutOrStdout(), "sheets", report)

			d := deck.FromSheets(deckName, paths, imagepkg.Paginate(len(paths), opts.Pagination), opts.Ext)
			if err := writeDeckFiles(d, outDir, qrSize); err != nil {
				return err
			}
			return reportErr("sheets", report)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "sheets", "output directory")
	cmd.Flags().StringVar(&deckName, "name", "deck", "deck name recorded in the manifest")
	cmd.Flags().IntVar(&perSheet, "per-sheet", 0, "cards per sheet (default from config)")
	cmd.Flags().IntVar(&cols, "cols", 0, "columns per sheet (default from config)")
	cmd.Flags().StringVar(&ext, "ext", "", "sheet file format: png or jpg")
	cmd.Flags().IntVar(&qrSize, "qr", 0, "also write deck_qr.png at this size")
	res.register(cmd)
	return cmd
}

// writeDeckFiles saves the manifest, the text list and, when qrSize > 0, the
// QR tile for d into dir.
func writeDeckFiles(d deck.Deck, dir string, qrSize int) error {
	if err := d.Save(filepath.Join(dir, "deck.json")); err != nil {
		return err
	}
	if err := deck.WriteText(d, filepath.Join(dir, "deck.txt")); err != nil {
		return err
	}
	if qrSize <= 0 {
		return nil
	}
	tile, err := deck.QRTile(d, qrSize)
	if err != nil {
		return err
	}
	return imagepkg.Save(tile, filepath.Join(dir, "deck_qr.png"))
}
