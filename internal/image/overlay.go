package imagepkg

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/youruser/cardforge/internal/document"
)

// DefaultMarginRatio is the share of each base dimension left free on every
// side when art is centred without known bounds.
const DefaultMarginRatio = 0.05

// ScaleFactor returns the factor applied to art of the given size.
// Fill covers the bounds and may overshoot them; fit stays inside the bounds
// and never enlarges the art beyond 1:1.
func ScaleFactor(artW, artH int, b document.Bounds) float64 {
	if artW <= 0 || artH <= 0 || b.Empty() {
		return 1
	}
	sx := float64(b.Width) / float64(artW)
	sy := float64(b.Height) / float64(artH)
	if b.Normalized().Placement == document.PlacementFit {
		return math.Min(math.Min(sx, sy), 1.0)
	}
	return math.Max(sx, sy)
}

// ArtRect returns where art of size artW x artH lands for bounds b: its
// resized dimensions, each at least one pixel, positioned by the alignment
// rules. Centring uses floor division.
func ArtRect(artW, artH int, b document.Bounds) image.Rectangle {
	b = b.Normalized()
	scale := ScaleFactor(artW, artH, b)
	w := max(1, int(math.Round(float64(artW)*scale)))
	h := max(1, int(math.Round(float64(artH)*scale)))

	var x, y int
	switch b.Horizontal {
	case document.AlignLeft:
		x = b.X
	case document.AlignRight:
		x = b.X + b.Width - w
	default:
		x = b.X + floorDiv(b.Width-w, 2)
	}
	switch b.Vertical {
	case document.AlignTop:
		y = b.Y
	case document.AlignBottom:
		y = b.Y + b.Height - h
	default:
		y = b.Y + floorDiv(b.Height-h, 2)
	}
	return image.Rect(x, y, x+w, y+h)
}

// Overlay places art inside b on a transparent canvas the size of base and
// then draws base on top. Base is expected to be transparent where the art
// should show; its frame and text hide any overscan from fill placement.
func Overlay(base, art image.Image, b document.Bounds) *image.NRGBA {
	bb := base.Bounds()
	ab := art.Bounds()
	r := ArtRect(ab.Dx(), ab.Dy(), b)

	canvas := imaging.New(bb.Dx(), bb.Dy(), color.Transparent)
	resized := imaging.Resize(art, r.Dx(), r.Dy(), imaging.Lanczos)
	canvas = imaging.Overlay(canvas, resized, r.Min, 1.0)
	return imaging.Overlay(canvas, base, image.Point{}, 1.0)
}

// FallbackBounds is the region used when a base image has no recorded art
// bounds: the base shrunk by marginRatio of each dimension on every side,
// with centred fit placement.
func FallbackBounds(baseW, baseH int, marginRatio float64) document.Bounds {
	if marginRatio < 0 || marginRatio >= 0.5 {
		marginRatio = DefaultMarginRatio
	}
	mx := int(float64(baseW) * marginRatio)
	my := int(float64(baseH) * marginRatio)
	return document.Bounds{
		X:          mx,
		Y:          my,
		Width:      max(1, baseW-2*mx),
		Height:     max(1, baseH-2*my),
		Placement:  document.PlacementFit,
		Horizontal: document.AlignCenter,
		Vertical:   document.AlignMiddle,
	}
}

// OverlayCentered is the degraded overlay used when bounds are unknown.
func OverlayCentered(base, art image.Image, marginRatio float64) *image.NRGBA {
	bb := base.Bounds()
	return Overlay(base, art, FallbackBounds(bb.Dx(), bb.Dy(), marginRatio))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
