package imagepkg

import (
	"image"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/youruser/cardforge/internal/errors"
	"github.com/youruser/cardforge/internal/util"
)

// SheetOptions configures file-based stitching.
type SheetOptions struct {
	Grid       GridSpec // Rows and Cols are overridden per sheet
	Pagination PaginationPolicy
	Target     Target
	Presets    Presets
	Ext        string // output extension, "png" when empty
	Logger     *log.Logger
}

func (o SheetOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

func (o SheetOptions) presets() Presets {
	if o.Presets != nil {
		return o.Presets
	}
	return DefaultPresets()
}

// ListImages returns the supported image files of dir in name order.
func ListImages(dir string) ([]string, error) {
	return util.ListFiles(dir, IsImageFile)
}

// composeFiles composes paths onto grid, opening one card at a time. Cards
// that fail to open keep their cell as a placeholder so that the positions
// of the others do not shift, and are recorded in report.
func composeFiles(paths []string, grid GridSpec, logger *log.Logger, report *errors.Report) (*image.NRGBA, error) {
	return composeCells(grid, func(i int) image.Image {
		if i >= len(paths) {
			return nil
		}
		img, err := Open(paths[i])
		if err != nil {
			logger.Error("card image unreadable", "path", paths[i], "err", err)
			report.AddFailure(paths[i], err)
			return nil
		}
		return img
	})
}

// StitchFiles composes paths onto a single rows x cols grid, rescales it to
// the target width and writes it to out. The report counts the one output;
// unreadable cards appear among its failures.
func StitchFiles(paths []string, rows, cols int, out string, opts SheetOptions) errors.Report {
	logger := opts.logger()
	report := errors.Report{Total: 1}

	if len(paths) == 0 {
		report.AddFailure(out, errors.New(errors.ErrCodeInvalidInput, "no card images to stitch"))
		return report
	}
	grid := opts.Grid
	grid.Rows, grid.Cols = rows, cols
	if n := grid.Cells(); len(paths) < n {
		logger.Warn("fewer cards than cells, filling with placeholders", "cards", len(paths), "cells", n)
	}

	canvas, err := composeFiles(paths, grid, logger, &report)
	if err != nil {
		report.AddFailure(out, err)
		return report
	}
	final := ApplyResolution(canvas, opts.Target, opts.presets())
	if err := Save(final, out); err != nil {
		report.AddFailure(out, err)
		return report
	}
	b := final.Bounds()
	logger.Info("stitched", "output", out, "size", [2]int{b.Dx(), b.Dy()}, "grid", [2]int{rows, cols})
	report.AddSuccess(out)
	return report
}

// AutoStitch stitches every image in dir onto one grid of at most maxCols
// columns.
func AutoStitch(dir, out string, maxCols int, opts SheetOptions) errors.Report {
	paths, err := ListImages(dir)
	if err != nil {
		r := errors.Report{Total: 1}
		r.AddFailure(dir, errors.Wrap(errors.ErrCodeIO, err, "list %s", dir))
		return r
	}
	rows, cols := AutoGrid(len(paths), maxCols)
	opts.logger().Info("auto grid", "images", len(paths), "rows", rows, "cols", cols)
	return StitchFiles(paths, rows, cols, out, opts)
}

// BuildSheets paginates paths and writes one deck_sheet_{n} file per page
// into outDir. Sheets are processed in order; a failing sheet does not stop
// the next one.
func BuildSheets(paths []string, outDir string, opts SheetOptions) errors.Report {
	logger := opts.logger()
	sheets := Paginate(len(paths), opts.Pagination)
	report := errors.Report{Total: len(sheets)}

	if err := util.EnsureDir(outDir); err != nil {
		for _, s := range sheets {
			report.AddFailure(SheetFileName(s.Index, opts.Ext), errors.Wrap(errors.ErrCodeIO, err, "create %s", outDir))
		}
		return report
	}

	logger.Info("building deck sheets", "cards", len(paths), "sheets", len(sheets))
	for _, s := range sheets {
		out := filepath.Join(outDir, SheetFileName(s.Index, opts.Ext))
		canvas, err := composeFiles(paths[s.Start:s.End], s.Grid(opts.Grid), logger, &report)
		if err != nil {
			report.AddFailure(out, err)
			continue
		}
		if err := Save(ApplyResolution(canvas, opts.Target, opts.presets()), out); err != nil {
			report.AddFailure(out, err)
			continue
		}
		logger.Debug("sheet written", "sheet", s.Index, "cards", s.Count(), "rows", s.Rows, "placeholders", s.Placeholders())
		report.AddSuccess(out)
	}
	return report
}
