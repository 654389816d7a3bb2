package imagepkg

import (
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Presets maps a preset name to a target pixel width.
type Presets map[string]int

// DefaultPresets returns the 4k / 2k / 1080p / 720p widths.
func DefaultPresets() Presets {
	return Presets{
		"4k":    3840,
		"2k":    2560,
		"1080p": 1920,
		"720p":  1280,
	}
}

// Target selects an output width either by preset name or explicitly.
// A positive Width takes precedence over Preset.
type Target struct {
	Preset string
	Width  int
}

// IsZero reports whether t asks for no rescaling at all.
func (t Target) IsZero() bool {
	return t.Preset == "" && t.Width == 0
}

// Resolve returns the width t refers to. Unknown presets and non-positive
// widths resolve to no target: bad output settings degrade to the identity
// transform rather than failing the render.
func (p Presets) Resolve(t Target) (int, bool) {
	if t.Width > 0 {
		return t.Width, true
	}
	if t.Width < 0 || t.Preset == "" {
		return 0, false
	}
	w, ok := p[strings.ToLower(strings.TrimSpace(t.Preset))]
	if !ok || w <= 0 {
		return 0, false
	}
	return w, true
}

// ApplyResolution downsizes img to the target width, keeping its aspect
// ratio. Images already at or below the target width are returned as is, so
// applying the same target twice is the same as applying it once.
func ApplyResolution(img image.Image, t Target, presets Presets) image.Image {
	target, ok := presets.Resolve(t)
	if !ok {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= target {
		return img
	}
	return imaging.Resize(img, target, ScaledHeight(b.Dx(), b.Dy(), target), imaging.Lanczos)
}

// ScaledHeight is the height that keeps w:h when the width becomes target.
func ScaledHeight(w, h, target int) int {
	if w <= 0 {
		return h
	}
	return max(1, int(math.Round(float64(h)*float64(target)/float64(w))))
}
