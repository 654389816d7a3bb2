package imagepkg

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/youruser/cardforge/internal/errors"
)

// Default card cell size and fills.
const (
	DefaultCardWidth  = 1500
	DefaultCardHeight = 2100
)

var (
	DefaultBackground  color.Color = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	DefaultPlaceholder color.Color = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
)

// GridSpec describes a rows x cols sheet of equally sized card cells.
// Background fills the gutters; Placeholder fills cells with no card.
type GridSpec struct {
	Rows        int
	Cols        int
	CardWidth   int
	CardHeight  int
	Spacing     int
	Background  color.Color
	Placeholder color.Color
}

// DefaultGridSpec returns a 7x10 grid of 1500x2100 cells without gutters.
func DefaultGridSpec() GridSpec {
	return GridSpec{
		Rows:        7,
		Cols:        10,
		CardWidth:   DefaultCardWidth,
		CardHeight:  DefaultCardHeight,
		Background:  DefaultBackground,
		Placeholder: DefaultPlaceholder,
	}
}

// Validate rejects grids that cannot produce a canvas.
func (s GridSpec) Validate() error {
	switch {
	case s.Rows <= 0 || s.Cols <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "grid must have positive rows and cols, got %dx%d", s.Rows, s.Cols)
	case s.CardWidth <= 0 || s.CardHeight <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "card size must be positive, got %dx%d", s.CardWidth, s.CardHeight)
	case s.Spacing < 0:
		return errors.New(errors.ErrCodeInvalidInput, "spacing must not be negative, got %d", s.Spacing)
	}
	return nil
}

// Cells is the number of card slots on the sheet.
func (s GridSpec) Cells() int {
	return s.Rows * s.Cols
}

// CanvasSize returns cols*W + (cols-1)*spacing by rows*H + (rows-1)*spacing.
func (s GridSpec) CanvasSize() (int, int) {
	w := s.Cols*s.CardWidth + (s.Cols-1)*s.Spacing
	h := s.Rows*s.CardHeight + (s.Rows-1)*s.Spacing
	return w, h
}

// CellRect returns the rectangle of the i-th cell in row-major order.
func (s GridSpec) CellRect(i int) image.Rectangle {
	row, col := i/s.Cols, i%s.Cols
	x := col * (s.CardWidth + s.Spacing)
	y := row * (s.CardHeight + s.Spacing)
	return image.Rect(x, y, x+s.CardWidth, y+s.CardHeight)
}

func (s GridSpec) fills() (bg, ph color.Color) {
	bg, ph = s.Background, s.Placeholder
	if bg == nil {
		bg = DefaultBackground
	}
	if ph == nil {
		ph = DefaultPlaceholder
	}
	return bg, ph
}

// ComposeGrid places images row-major into the grid described by spec.
// Every image is resized to the cell size with a Lanczos filter, ignoring its
// aspect ratio. Missing cells, and nil entries, get the placeholder fill.
// Images beyond rows*cols are not placed; paginate before calling if that
// matters.
func ComposeGrid(images []image.Image, spec GridSpec) (*image.NRGBA, error) {
	return composeCells(spec, func(i int) image.Image {
		if i < len(images) {
			return images[i]
		}
		return nil
	})
}

// composeCells builds the canvas pulling one cell image at a time, so callers
// streaming from disk never hold a whole sheet of decoded cards in memory.
func composeCells(spec GridSpec, cell func(i int) image.Image) (*image.NRGBA, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	bg, ph := spec.fills()
	w, h := spec.CanvasSize()
	canvas := imaging.New(w, h, bg)
	blank := image.NewUniform(ph)

	// draw.Draw writes into the canvas in place; imaging.Paste would copy the
	// whole canvas once per card.
	for i := 0; i < spec.Cells(); i++ {
		r := spec.CellRect(i)
		img := cell(i)
		if img == nil {
			draw.Draw(canvas, r, blank, image.Point{}, draw.Src)
			continue
		}
		fitted := imaging.Resize(img, spec.CardWidth, spec.CardHeight, imaging.Lanczos)
		draw.Draw(canvas, r, fitted, image.Point{}, draw.Src)
	}
	return canvas, nil
}

// AutoGrid picks cols = min(total, maxCols) and just enough rows for total
// cards. It returns 0, 0 when there is nothing to place.
func AutoGrid(total, maxCols int) (rows, cols int) {
	if total <= 0 {
		return 0, 0
	}
	if maxCols <= 0 {
		maxCols = DefaultSheetCols
	}
	cols = min(total, maxCols)
	rows = ceilDiv(total, cols)
	return rows, cols
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
