// Package pipeline runs the whole card build: records are merged into
// documents, rendered, dressed with artwork and stitched into deck sheets.
package pipeline

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/youruser/cardforge/internal/art"
	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/deck"
	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/errors"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/render"
	"github.com/youruser/cardforge/internal/util"
)

// Options configures Run. OutDir receives docs/, art/, cards/ and sheets/
// subdirectories.
type Options struct {
	Template *document.Document
	Records  []cards.Record
	OutDir   string
	DeckName string

	Build    cards.BuildOptions
	Renderer render.Renderer

	// Art, when set, generates artwork before rendering. ArtDir may instead
	// point at existing artwork; with neither, cards are stitched as rendered.
	Art      art.Generator
	ArtBatch art.BatchOptions
	ArtDir   string

	Overlay imagepkg.OverlayBatchOptions // ArtDir, OutDir and Bounds are filled in
	Sheets  imagepkg.SheetOptions

	Logger *log.Logger
}

// Layout returns the stage directories under OutDir.
func (o Options) Layout() (docs, artDir, cardDir, sheetDir string) {
	artDir = o.ArtDir
	if artDir == "" && o.Art != nil {
		artDir = filepath.Join(o.OutDir, "art")
	}
	return filepath.Join(o.OutDir, "docs"), artDir, filepath.Join(o.OutDir, "cards"), filepath.Join(o.OutDir, "sheets")
}

// Result holds one report per stage and the manifest of the written deck.
type Result struct {
	Documents errors.Report
	Art       errors.Report
	Render    errors.Report
	Overlay   errors.Report
	Sheets    errors.Report
	Deck      deck.Deck
}

// Failed reports whether any stage recorded a failure.
func (r Result) Failed() bool {
	for _, s := range r.Stages() {
		if s.Report.Failed() {
			return true
		}
	}
	return false
}

// StageReport names a stage report for display.
type StageReport struct {
	Name   string
	Report errors.Report
}

func (r Result) Stages() []StageReport {
	return []StageReport{
		{"documents", r.Documents},
		{"art", r.Art},
		{"render", r.Render},
		{"overlay", r.Overlay},
		{"sheets", r.Sheets},
	}
}

// Run executes every stage in order. A card that fails in one stage is
// dropped from the later ones; the run itself only stops early when ctx is
// cancelled or no card survives.
func Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Template == nil {
		return res, errors.New(errors.ErrCodeInvalidInput, "no card template")
	}
	if opts.Renderer == nil {
		return res, errors.New(errors.ErrCodeInvalidInput, "no renderer")
	}
	if opts.Build.Mapping == nil {
		opts.Build = cards.DefaultBuildOptions()
	}
	docDir, artDir, cardDir, sheetDir := opts.Layout()

	logger.Info("building documents", "cards", len(opts.Records), "dir", docDir)
	jobs, docReport := WriteDocuments(opts.Template, opts.Records, docDir, opts.Build, logger)
	res.Documents = docReport

	if opts.Art != nil {
		ab := opts.ArtBatch
		ab.OutDir, ab.Logger = artDir, logger
		res.Art = art.GenerateBatch(ctx, opts.Art, opts.Records, ab)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Render = render.RenderBatch(ctx, opts.Renderer, jobs, logger)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	bitmaps := res.Render.Outputs

	if artDir != "" {
		ov := opts.Overlay
		ov.ArtDir, ov.OutDir, ov.Logger = artDir, cardDir, logger
		ov.Bounds = boundsByName(jobs)
		res.Overlay = imagepkg.OverlayFiles(bitmaps, ov)
		bitmaps = mergeOverlaid(bitmaps, res.Overlay, cardDir)
	}
	if len(bitmaps) == 0 {
		return res, errors.New(errors.ErrCodeNotFound, "no card survived to the sheet stage")
	}

	sheets := opts.Sheets
	sheets.Logger = logger
	res.Sheets = imagepkg.BuildSheets(bitmaps, sheetDir, sheets)
	res.Deck = deck.FromSheets(opts.DeckName, bitmaps, imagepkg.Paginate(len(bitmaps), sheets.Pagination), sheets.Ext)
	if err := res.Deck.Save(filepath.Join(sheetDir, "deck.json")); err != nil {
		logger.Warn("deck manifest not written", "err", err)
	}
	if err := deck.WriteText(res.Deck, filepath.Join(sheetDir, "deck.txt")); err != nil {
		logger.Warn("deck list not written", "err", err)
	}
	return res, nil
}

// WriteDocuments merges every record into template and saves one
// "{name}.json" per card into dir.
func WriteDocuments(template *document.Document, recs []cards.Record, dir string, opts cards.BuildOptions, logger *log.Logger) ([]render.Job, errors.Report) {
	report := errors.Report{Total: len(recs)}
	if err := util.EnsureDir(dir); err != nil {
		werr := errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
		logger.Error("document directory not created", "dir", dir, "err", err)
		for i, rec := range recs {
			report.AddFailure(cards.FileName(rec, i), werr)
		}
		return nil, report
	}
	var jobs []render.Job
	for i, rec := range recs {
		name := cards.FileName(rec, i)
		doc, missing := cards.Build(template, rec, opts)
		if len(missing) > 0 {
			logger.Debug("template lacks fields", "card", name, "fields", missing)
		}
		path := filepath.Join(dir, name+".json")
		if err := doc.Save(path); err != nil {
			logger.Error("document not written", "card", name, "err", err)
			report.AddFailure(name, err)
			continue
		}
		report.AddSuccess(path)
		jobs = append(jobs, render.Job{Name: name, Doc: doc, DocPath: path})
	}
	return jobs, report
}

func boundsByName(jobs []render.Job) imagepkg.BoundsLookup {
	byName := make(map[string]*document.Document, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j.Doc
	}
	return func(stem string) (document.Bounds, bool) {
		doc, ok := byName[stem]
		if !ok {
			return document.Bounds{}, false
		}
		b, ok := document.BoundsFor(doc.Root, cards.FieldArt)
		if !ok || b.Empty() {
			return document.Bounds{}, false
		}
		return b, true
	}
}

// mergeOverlaid swaps each bitmap that received art for its overlaid copy,
// keeping the card order. Cards whose overlay failed or had no art go on
// the sheet as rendered.
func mergeOverlaid(bitmaps []string, report errors.Report, cardDir string) []string {
	done := make(map[string]bool, len(report.Outputs))
	for _, o := range report.Outputs {
		done[o] = true
	}
	out := make([]string, len(bitmaps))
	for i, b := range bitmaps {
		overlaid := imagepkg.OutputPath(cardDir, b)
		if done[overlaid] {
			out[i] = overlaid
		} else {
			out[i] = b
		}
	}
	return out
}
