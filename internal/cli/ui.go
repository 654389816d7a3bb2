package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/youruser/cardforge/internal/errors"
)

var (
	okStyle   = color.New(color.FgGreen, color.Bold)
	warnStyle = color.New(color.FgYellow)
	failStyle = color.New(color.FgRed, color.Bold)
	dimStyle  = color.New(color.Faint)
)

// printReport writes a one-line summary of report and one line per failure.
func printReport(w io.Writer, stage string, report errors.Report) {
	style := okStyle
	switch {
	case report.Failed():
		style = failStyle
	case len(report.Skipped) > 0:
		style = warnStyle
	}
	fmt.Fprintf(w, "%s %s\n", style.Sprintf("%-9s", stage), report.Summary())
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  %s %s: %s\n", failStyle.Sprint("✗"), f.ID, errors.UserMessage(f.Err))
	}
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Sprint("-"), s)
	}
}

// reportErr turns a report with failures into a command error so the
// process exits non-zero.
func reportErr(stage string, report errors.Report) error {
	if !report.Failed() {
		return nil
	}
	return fmt.Errorf("%s: %d of %d failed", stage, len(report.Failures), report.Total)
}
