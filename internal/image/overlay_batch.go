package imagepkg

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/errors"
	"github.com/youruser/cardforge/internal/util"
)

// BoundsLookup returns the art bounds recorded for a base image stem.
type BoundsLookup func(stem string) (document.Bounds, bool)

// BoundsFromDocuments looks up bounds in "{dir}/{stem}.json", reading the
// first image field called field. Missing or unreadable documents are a
// miss, not an error: the overlay falls back to centred placement.
func BoundsFromDocuments(dir, field string) BoundsLookup {
	return func(stem string) (document.Bounds, bool) {
		doc, err := document.Load(filepath.Join(dir, stem+".json"))
		if err != nil {
			return document.Bounds{}, false
		}
		b, ok := document.BoundsFor(doc.Root, field)
		if !ok || b.Empty() {
			return document.Bounds{}, false
		}
		return b, true
	}
}

// FixedBounds returns a lookup that answers b for every stem.
func FixedBounds(b document.Bounds) BoundsLookup {
	return func(string) (document.Bounds, bool) { return b, true }
}

// MatchArt picks the art for baseStem from artStems. An exact stem always
// wins. With fuzzy set, the first stem (in the given order) where either
// name is a prefix of the other is accepted.
func MatchArt(baseStem string, artStems []string, fuzzy bool) (int, bool) {
	for i, s := range artStems {
		if s == baseStem {
			return i, true
		}
	}
	if !fuzzy {
		return -1, false
	}
	for i, s := range artStems {
		if strings.HasPrefix(s, baseStem) || strings.HasPrefix(baseStem, s) {
			return i, true
		}
	}
	return -1, false
}

// OverlayBatchOptions configures OverlayBatch.
type OverlayBatchOptions struct {
	ArtDir  string
	BaseDir string
	OutDir  string // defaults to each base's directory, overwriting it

	Bounds      BoundsLookup // nil means always use the centred fallback
	MarginRatio float64
	Fuzzy       bool
	Logger      *log.Logger
}

// OverlayBatch merges art files into base images matched by file stem.
// Bases without matching art are left untouched and reported as skipped;
// unreadable files fail individually.
func OverlayBatch(opts OverlayBatchOptions) errors.Report {
	bases, err := ListImages(opts.BaseDir)
	if err != nil {
		report := errors.Report{Total: 1}
		report.AddFailure(opts.BaseDir, errors.Wrap(errors.ErrCodeIO, err, "list bases"))
		return report
	}
	return OverlayFiles(bases, opts)
}

// OverlayFiles is OverlayBatch over an explicit list of base images. BaseDir
// is ignored; OutDir must be set unless bases are to be overwritten in place.
func OverlayFiles(bases []string, opts OverlayBatchOptions) errors.Report {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	report := errors.Report{Total: len(bases)}

	arts, err := ListImages(opts.ArtDir)
	if err != nil {
		for _, b := range bases {
			report.AddFailure(b, errors.Wrap(errors.ErrCodeIO, err, "list art"))
		}
		return report
	}
	artStems := make([]string, len(arts))
	for i, a := range arts {
		artStems[i] = util.Stem(a)
	}

	for _, basePath := range bases {
		outDir := opts.OutDir
		if outDir == "" {
			outDir = filepath.Dir(basePath)
		}
		stem := util.Stem(basePath)
		i, ok := MatchArt(stem, artStems, opts.Fuzzy)
		if !ok {
			logger.Debug("no art for base", "base", stem)
			report.AddSkipped(basePath)
			continue
		}

		out, err := overlayFile(basePath, arts[i], OutputPath(outDir, basePath), stem, opts)
		if err != nil {
			logger.Error("overlay failed", "base", basePath, "art", arts[i], "err", err)
			report.AddFailure(basePath, err)
			continue
		}
		report.AddSuccess(out)
	}
	logger.Info("overlay batch done", "summary", report.Summary())
	return report
}

func overlayFile(basePath, artPath, out, stem string, opts OverlayBatchOptions) (string, error) {
	base, err := Open(basePath)
	if err != nil {
		return "", err
	}
	art, err := Open(artPath)
	if err != nil {
		return "", err
	}

	var composed *image.NRGBA
	if b, ok := lookup(opts.Bounds, stem); ok {
		composed = Overlay(base, art, b)
	} else {
		composed = OverlayCentered(base, art, opts.MarginRatio)
	}
	if err := Save(composed, out); err != nil {
		return "", err
	}
	return out, nil
}

func lookup(fn BoundsLookup, stem string) (document.Bounds, bool) {
	if fn == nil {
		return document.Bounds{}, false
	}
	return fn(stem)
}
