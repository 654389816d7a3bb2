package imagepkg

import (
	"image"
	"image/draw"
	"math"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/youruser/cardforge/internal/document"
)

func TestArtRectFitExample(t *testing.T) {
	b := document.Bounds{X: 100, Y: 100, Width: 1300, Height: 1600, Placement: document.PlacementFit}

	if got := ScaleFactor(800, 400, b); got != 1.0 {
		t.Errorf("ScaleFactor() = %v, want 1.0", got)
	}
	r := ArtRect(800, 400, b)
	if want := image.Rect(350, 700, 1150, 1100); r != want {
		t.Errorf("ArtRect() = %v, want %v", r, want)
	}
}

func TestArtRectFillOverscan(t *testing.T) {
	b := document.Bounds{X: 100, Y: 100, Width: 1300, Height: 1600, Placement: document.PlacementFill}
	r := ArtRect(800, 400, b)
	if r.Dx() != 3200 || r.Dy() != 1600 {
		t.Fatalf("fill size = %dx%d, want 3200x1600", r.Dx(), r.Dy())
	}
	if r.Min != image.Pt(-850, 100) {
		t.Errorf("fill origin = %v, want (-850,100)", r.Min)
	}
}

func TestArtRectAlignment(t *testing.T) {
	base := document.Bounds{X: 10, Y: 20, Width: 100, Height: 100, Placement: document.PlacementFit}
	tests := []struct {
		h    document.HAlign
		v    document.VAlign
		want image.Point
	}{
		{document.AlignLeft, document.AlignTop, image.Pt(10, 20)},
		{document.AlignRight, document.AlignBottom, image.Pt(10+100-40, 20+100-20)},
		{document.AlignCenter, document.AlignMiddle, image.Pt(10+30, 20+40)},
		{"", "", image.Pt(10+30, 20+40)},
	}
	for _, tt := range tests {
		b := base
		b.Horizontal, b.Vertical = tt.h, tt.v
		if got := ArtRect(40, 20, b).Min; got != tt.want {
			t.Errorf("%s/%s: origin %v, want %v", tt.h, tt.v, got, tt.want)
		}
	}
}

func TestArtRectScalingProperties(t *testing.T) {
	sizes := []int{1, 3, 17, 64, 250, 799, 1024, 3001}
	for _, bw := range []int{50, 333, 1300} {
		for _, bh := range []int{41, 600, 1600} {
			for _, aw := range sizes {
				for _, ah := range sizes {
					fill := ArtRect(aw, ah, document.Bounds{Width: bw, Height: bh, Placement: document.PlacementFill})
					if fill.Dx() < bw-1 || fill.Dy() < bh-1 {
						t.Fatalf("fill %dx%d into %dx%d gave %dx%d", aw, ah, bw, bh, fill.Dx(), fill.Dy())
					}

					fit := ArtRect(aw, ah, document.Bounds{Width: bw, Height: bh, Placement: document.PlacementFit})
					if fit.Dx() > max(bw, 1) || fit.Dy() > max(bh, 1) {
						t.Fatalf("fit %dx%d into %dx%d overflowed: %dx%d", aw, ah, bw, bh, fit.Dx(), fit.Dy())
					}
					if fit.Dx() > aw || fit.Dy() > ah {
						t.Fatalf("fit %dx%d into %dx%d upscaled: %dx%d", aw, ah, bw, bh, fit.Dx(), fit.Dy())
					}
					if fit.Dx() < 1 || fit.Dy() < 1 {
						t.Fatalf("fit produced empty art %v", fit)
					}
				}
			}
		}
	}
}

func TestScaleFactorFitNeverUpscales(t *testing.T) {
	b := document.Bounds{Width: 1000, Height: 1000, Placement: document.PlacementFit}
	if got := ScaleFactor(10, 10, b); got != 1.0 {
		t.Errorf("ScaleFactor(small art) = %v, want 1.0", got)
	}
	b.Placement = document.PlacementFill
	if got := ScaleFactor(10, 20, b); math.Abs(got-100) > 1e-9 {
		t.Errorf("fill ScaleFactor = %v, want 100", got)
	}
}

// framedBase is an opaque red card with a transparent window.
func framedBase(w, h int, window image.Rectangle) *image.NRGBA {
	base := imaging.New(w, h, red)
	draw.Draw(base, window, image.Transparent, image.Point{}, draw.Src)
	return base
}

func TestOverlayBaseOccludesArt(t *testing.T) {
	window := image.Rect(20, 20, 80, 60)
	base := framedBase(100, 100, window)
	art := solid(30, 30, blue)
	b := document.Bounds{X: 20, Y: 20, Width: 60, Height: 40, Placement: document.PlacementFill}

	out := Overlay(base, art, b)

	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 100 {
		t.Fatalf("output size = %v", out.Bounds())
	}
	if got := out.NRGBAAt(50, 40); got != blue {
		t.Errorf("window pixel = %v, want art", got)
	}
	// Fill overscans vertically (60x60 art in a 60x40 box); the frame must win.
	if got := out.NRGBAAt(50, 15); got != red {
		t.Errorf("frame pixel above window = %v, want base", got)
	}
	if got := out.NRGBAAt(5, 5); got != red {
		t.Errorf("corner = %v, want base", got)
	}
}

func TestOverlayLeavesUncoveredTransparent(t *testing.T) {
	base := framedBase(100, 100, image.Rect(0, 0, 100, 100))
	art := solid(10, 10, blue)
	b := document.Bounds{X: 0, Y: 0, Width: 50, Height: 50, Placement: document.PlacementFit, Horizontal: document.AlignLeft, Vertical: document.AlignTop}

	out := Overlay(base, art, b)
	if got := out.NRGBAAt(5, 5); got != blue {
		t.Errorf("art pixel = %v", got)
	}
	if got := out.NRGBAAt(90, 90); got.A != 0 {
		t.Errorf("uncovered pixel = %v, want transparent", got)
	}
}

func TestFallbackBounds(t *testing.T) {
	b := FallbackBounds(1500, 2100, DefaultMarginRatio)
	if b.X != 75 || b.Y != 105 || b.Width != 1350 || b.Height != 1890 {
		t.Errorf("FallbackBounds() = %+v", b)
	}
	if b.Placement != document.PlacementFit {
		t.Errorf("fallback placement = %q, want fit", b.Placement)
	}
	if got := FallbackBounds(100, 100, 0.9); got.X != 5 {
		t.Errorf("out-of-range ratio should fall back to default, got %+v", got)
	}
}

func TestOverlayCentered(t *testing.T) {
	base := framedBase(200, 200, image.Rect(0, 0, 200, 200))
	art := solid(20, 10, blue)

	out := OverlayCentered(base, art, 0.05)
	if got := out.NRGBAAt(100, 100); got != blue {
		t.Errorf("centre = %v, want art", got)
	}
	// 20x10 art is not upscaled: x in [90,110), y in [95,105).
	if got := out.NRGBAAt(85, 100); got.A != 0 {
		t.Errorf("pixel left of art = %v, want transparent", got)
	}
	if got := out.NRGBAAt(100, 93); got.A != 0 {
		t.Errorf("pixel above art = %v, want transparent", got)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 2, 3}, {-7, 2, -4}, {-1900, 2, -950}, {0, 2, 0}, {-1, 2, -1},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
