package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youruser/cardforge/internal/config"
	"github.com/youruser/cardforge/internal/render"
)

// newRenderer prefers an explicit directory of pre-rendered bitmaps, then
// the configured render command, then the configured directory.
func newRenderer(cfg *config.Config, fromDir, outDir string) (render.Renderer, error) {
	switch {
	case fromDir != "":
		return render.DirRenderer{Dir: fromDir}, nil
	case cfg.Render.Command != "":
		return render.ExecRenderer{Command: cfg.Render.Command, Args: cfg.Render.Args, OutDir: outDir}, nil
	case cfg.Render.Dir != "":
		return render.DirRenderer{Dir: cfg.Render.Dir}, nil
	}
	return nil, fmt.Errorf("no renderer: pass --from or set [render] command or dir in the config")
}

func newRenderCmd() *cobra.Command {
	var outDir, fromDir string
	cmd := &cobra.Command{
		Use:   "render <doc-dir>",
		Short: "Turn card documents into bitmaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			r, err := newRenderer(configFromContext(ctx), fromDir, outDir)
			if err != nil {
				return err
			}

			jobs, loaded := render.LoadJobs(args[0])
			if loaded.Failed() {
				printReport(cmd.OutOrStdout(), "load", loaded)
			}
			prog := newProgress(logger)
			report := render.RenderBatch(ctx, r, jobs, logger)
			prog.done(fmt.Sprintf("Rendered %d cards", report.Succeeded))
			printReport(cmd.OutOrStdout(), "render", report)
			return reportErr("render", report)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "rendered", "directory for bitmaps written by the render command")
	cmd.Flags().StringVar(&fromDir, "from", "", "directory of bitmaps rendered ahead of time")
	return cmd
}
