package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youruser/cardforge/internal/cards"
	"github.com/youruser/cardforge/internal/document"
	"github.com/youruser/cardforge/internal/pipeline"
)

type filterFlags struct {
	classes []string
	types   []string
	search  string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.classes, "class", nil, "only cards of these classes")
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "only cards whose type contains one of these")
	cmd.Flags().StringVar(&f.search, "search", "", "only cards containing every word")
}

func (f *filterFlags) apply(recs []cards.Record) []cards.Record {
	return cards.Filter(recs, cards.FilterOptions{Classes: f.classes, Types: f.types, FreeWords: f.search})
}

// loadRecords reads the card sheets and applies the filter flags.
func loadRecords(paths []string, f *filterFlags) ([]cards.Record, error) {
	recs, err := cards.LoadRecordsFromFiles(paths...)
	if err != nil {
		return nil, err
	}
	out := f.apply(recs)
	if len(out) == 0 {
		return nil, fmt.Errorf("no cards left after filtering %d rows", len(recs))
	}
	return out, nil
}

func newGenerateCmd() *cobra.Command {
	var (
		templatePath string
		outDir       string
		filters      filterFlags
	)
	cmd := &cobra.Command{
		Use:   "generate <sheet.csv>...",
		Short: "Merge card sheet rows into per-card template documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg := configFromContext(cmd.Context())

			tmpl, err := document.Load(templatePath)
			if err != nil {
				return err
			}
			recs, err := loadRecords(args, &filters)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			_, report := pipeline.WriteDocuments(tmpl, recs, outDir, cfg.BuildOptions(), logger)
			prog.done(fmt.Sprintf("Generated %d card documents", report.Succeeded))
			printReport(cmd.OutOrStdout(), "documents", report)
			return reportErr("generate", report)
		},
	}
	cmd.Flags().StringVarP(&templatePath, "template", "t", "template.json", "card template document")
	cmd.Flags().StringVarP(&outDir, "out", "o", "output", "directory for the card documents")
	filters.register(cmd)
	return cmd
}
