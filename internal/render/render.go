// Package render turns card documents into bitmaps. The actual drawing is
// done by an external card editor; this package only locates or invokes it.
package render

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/errors"
	imagepkg "github.com/youruser/cardforge/internal/image"
	"github.com/youruser/cardforge/internal/util"
)

// Job is one card to render. Name is the artifact base name shared by the
// document, the bitmap and the art file.
type Job struct {
	Name    string
	Doc     *document.Document
	DocPath string // where Doc is stored, if anywhere
}

// Renderer produces the bitmap for a job and returns its path.
type Renderer interface {
	Render(ctx context.Context, job Job) (string, error)
}

// DirRenderer resolves bitmaps that were rendered ahead of time into Dir,
// matching them to jobs by file stem.
type DirRenderer struct {
	Dir string
}

func (r DirRenderer) Render(ctx context.Context, job Job) (string, error) {
	paths, err := imagepkg.ListImages(r.Dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "list %s", r.Dir)
	}
	for _, p := range paths {
		if util.Stem(p) == job.Name {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeNotFound, "no rendered bitmap for %q in %s", job.Name, r.Dir)
}

// LoadJobs reads every card document in dir, in name order. Documents that
// fail to parse are reported and left out.
func LoadJobs(dir string) ([]Job, errors.Report) {
	var report errors.Report
	paths, err := util.ListFiles(dir, util.HasExt(".json"))
	if err != nil {
		report.Total = 1
		report.AddFailure(dir, errors.Wrap(errors.ErrCodeIO, err, "list %s", dir))
		return nil, report
	}
	report.Total = len(paths)
	var jobs []Job
	for _, p := range paths {
		doc, err := document.Load(p)
		if err != nil {
			report.AddFailure(p, err)
			continue
		}
		report.AddSuccess("")
		jobs = append(jobs, Job{Name: util.Stem(p), Doc: doc, DocPath: p})
	}
	return jobs, report
}

// RenderBatch renders jobs one after another; the editor behind a Renderer
// is a single shared session. Outputs keep job order.
func RenderBatch(ctx context.Context, r Renderer, jobs []Job, logger *log.Logger) errors.Report {
	if logger == nil {
		logger = log.Default()
	}
	report := errors.Report{Total: len(jobs)}
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			for _, rest := range jobs[i:] {
				report.AddFailure(rest.Name, err)
			}
			break
		}
		out, err := r.Render(ctx, job)
		if err != nil {
			logger.Error("render failed", "card", job.Name, "err", err)
			report.AddFailure(job.Name, err)
			continue
		}
		logger.Debug("rendered", "card", job.Name, "bitmap", filepath.Base(out))
		report.AddSuccess(out)
	}
	logger.Info("render batch done", "summary", report.Summary())
	return report
}
