package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/youruser/cardforge/internal/errors"
	"github.com/youruser/cardforge/internal/util"
)

// ExecRenderer runs an external command per card, such as a headless
// browser script driving the card editor. In Args, "{doc}" is replaced by
// the document path, "{out}" by the expected bitmap path and "{name}" by the
// job name. The command must write the bitmap to {out}.
type ExecRenderer struct {
	Command string
	Args    []string
	OutDir  string
}

func (r ExecRenderer) Render(ctx context.Context, job Job) (string, error) {
	if r.Command == "" {
		return "", errors.New(errors.ErrCodeInvalidConfig, "no render command configured")
	}
	if err := util.EnsureDir(r.OutDir); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "create %s", r.OutDir)
	}

	docPath := job.DocPath
	if docPath == "" {
		f, err := os.CreateTemp("", job.Name+"-*.json")
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeIO, err, "stage document")
		}
		f.Close()
		defer os.Remove(f.Name())
		if err := job.Doc.Save(f.Name()); err != nil {
			return "", err
		}
		docPath = f.Name()
	}

	out := filepath.Join(r.OutDir, job.Name+".png")
	repl := strings.NewReplacer("{doc}", docPath, "{out}", out, "{name}", job.Name)
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = repl.Replace(a)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "render %s: %s", job.Name, strings.TrimSpace(stderr.String()))
	}
	if _, err := os.Stat(out); err != nil {
		return "", errors.New(errors.ErrCodeNotFound, "render command produced no bitmap at %s", out)
	}
	return out, nil
}
