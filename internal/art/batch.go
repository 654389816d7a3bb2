package art

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/errors"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/util"
)

// DefaultDelay separates consecutive provider calls in a batch.
const DefaultDelay = 2 * time.Second

// BatchOptions configures GenerateBatch and EnhanceDocuments.
type BatchOptions struct {
	OutDir string
	Width  int
	Height int
	Delay  time.Duration

	// DocDir, when set, points the Art image field of "{DocDir}/{name}.json"
	// at the generated file.
	DocDir string
	// DefaultClass fills in the class of records read back from documents.
	DefaultClass string

	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *log.Logger
}

func (o BatchOptions) withDefaults() BatchOptions {
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 1024
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.Sleep == nil {
		o.Sleep = sleep
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.DefaultClass == "" {
		o.DefaultClass = "ninja"
	}
	return o
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type job struct {
	name string
	rec  cards.Record
	doc  string // document to update, "" for none
}

// GenerateBatch creates one "{name}.png" per record, strictly one request at
// a time with opts.Delay between requests. A failed card is reported and the
// batch moves on; cancelling ctx stops it.
func GenerateBatch(ctx context.Context, gen Generator, recs []cards.Record, opts BatchOptions) errors.Report {
	jobs := make([]job, len(recs))
	for i, rec := range recs {
		jobs[i] = job{name: cards.FileName(rec, i), rec: rec}
		if opts.DocDir != "" {
			jobs[i].doc = filepath.Join(opts.DocDir, jobs[i].name+".json")
		}
	}
	return run(ctx, gen, jobs, opts.withDefaults())
}

// EnhanceDocuments generates art for every card document in docDir and
// points each document's Art field at its new image.
func EnhanceDocuments(ctx context.Context, gen Generator, docDir string, opts BatchOptions) errors.Report {
	opts = opts.withDefaults()
	paths, err := util.ListFiles(docDir, util.HasExt(".json"))
	if err != nil {
		r := errors.Report{Total: 1}
		r.AddFailure(docDir, errors.Wrap(errors.ErrCodeIO, err, "list %s", docDir))
		return r
	}

	var report errors.Report
	var jobs []job
	for _, p := range paths {
		doc, err := document.Load(p)
		if err != nil {
			report.Total++
			report.AddFailure(p, err)
			continue
		}
		rec := cards.FromDocument(doc, opts.DefaultClass)
		name := util.SanitizeName(rec.Name())
		if name == "" {
			name = util.Stem(p)
		}
		jobs = append(jobs, job{name: name, rec: rec, doc: p})
	}
	report.Merge(run(ctx, gen, jobs, opts))
	return report
}

func run(ctx context.Context, gen Generator, jobs []job, opts BatchOptions) errors.Report {
	logger := opts.Logger
	report := errors.Report{Total: len(jobs)}
	if err := util.EnsureDir(opts.OutDir); err != nil {
		for _, j := range jobs {
			report.AddFailure(j.name, errors.Wrap(errors.ErrCodeIO, err, "create %s", opts.OutDir))
		}
		return report
	}

	for i, j := range jobs {
		out := filepath.Join(opts.OutDir, j.name+".png")
		prompt := cards.ArtPrompt(j.rec)
		logger.Info("generating art", "card", j.name, "n", i+1, "of", len(jobs), "provider", gen.Name())
		logger.Debug("prompt", "card", j.name, "prompt", prompt)

		if err := generateOne(ctx, gen, prompt, out, opts); err != nil {
			logger.Error("art generation failed", "card", j.name, "err", err)
			report.AddFailure(j.name, err)
		} else {
			report.AddSuccess(out)
			if j.doc != "" {
				updateDocument(j.doc, out, logger)
			}
		}

		if i < len(jobs)-1 {
			if err := opts.Sleep(ctx, opts.Delay); err != nil {
				for _, rest := range jobs[i+1:] {
					report.AddFailure(rest.name, err)
				}
				break
			}
		}
	}
	logger.Info("art batch done", "summary", report.Summary())
	return report
}

// generateOne normalizes whatever format the provider answered with into a
// PNG file.
func generateOne(ctx context.Context, gen Generator, prompt, out string, opts BatchOptions) error {
	data, err := gen.Generate(ctx, prompt, opts.Width, opts.Height)
	if err != nil {
		return err
	}
	img, err := imagepkg.Decode(data)
	if err != nil {
		return err
	}
	return imagepkg.Save(img, out)
}

// updateDocument is best effort: the image exists either way.
func updateDocument(path, art string, logger *log.Logger) {
	doc, err := document.Load(path)
	if err != nil {
		logger.Warn("card document not updated", "doc", path, "err", err)
		return
	}
	if !document.FindAndUpdate(doc.Root, document.KindImage, cards.FieldArt, art) {
		logger.Warn("card document has no Art field", "doc", path)
		return
	}
	if err := doc.Save(path); err != nil {
		logger.Warn("card document not updated", "doc", path, "err", err)
	}
}
