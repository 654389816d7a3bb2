package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/youruser/cardforge/internal/art"
	"github.com/youruser/cardforge/internal/cache"
	"github.com/youruser/cardforge/internal/config"
	"github.com/youruser/cardforge/internal/errors"
)

// newGenerator builds the configured provider behind the art cache. With
// noCache, or when the cache directory is unusable, a NullCache stands in.
func newGenerator(cfg *config.Config, provider string, noCache bool, logger *log.Logger) (art.Generator, error) {
	if provider == "" {
		provider = cfg.Art.Provider
	}
	gen, err := art.New(provider, "")
	if err != nil {
		return nil, err
	}
	var c cache.Cache = cache.NewNullCache()
	if !noCache {
		fc, err := cache.NewFileCache(cfg.ArtCacheDir())
		if err != nil {
			logger.Warn("art cache unavailable, continuing without it", "err", err)
		} else {
			c = fc
		}
	}
	return &art.Cached{Inner: gen, Cache: c, TTL: cfg.Art.CacheTTL.Duration}, nil
}

func artBatchOptions(cfg *config.Config, outDir, docDir string, logger *log.Logger) art.BatchOptions {
	return art.BatchOptions{
		OutDir:       outDir,
		Width:        cfg.Art.Width,
		Height:       cfg.Art.Height,
		Delay:        cfg.Art.Delay.Duration,
		DocDir:       docDir,
		DefaultClass: cfg.Conventions.DefaultClass,
		Logger:       logger,
	}
}

func newArtCmd() *cobra.Command {
	var (
		outDir   string
		docDir   string
		fromDocs string
		provider string
		noCache  bool
		filters  filterFlags
	)
	cmd := &cobra.Command{
		Use:   "art [sheet.csv]...",
		Short: "Generate card artwork with an image provider",
		Long: `Generate one image per card from a prompt derived from its class, name and rules.

Cards come either from card sheets or, with --from-docs, from existing card
documents whose Art field is then pointed at the new image.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			gen, err := newGenerator(cfg, provider, noCache, logger)
			if err != nil {
				return err
			}
			opts := artBatchOptions(cfg, outDir, docDir, logger)

			var report errors.Report
			prog := newProgress(logger)
			switch {
			case fromDocs != "":
				report = art.EnhanceDocuments(ctx, gen, fromDocs, opts)
			case len(args) > 0:
				recs, err := loadRecords(args, &filters)
				if err != nil {
					return err
				}
				report = art.GenerateBatch(ctx, gen, recs, opts)
			default:
				return fmt.Errorf("give card sheets or --from-docs")
			}
			prog.done(fmt.Sprintf("Generated %d images", report.Succeeded))
			printReport(cmd.OutOrStdout(), "art", report)
			return reportErr("art", report)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "card_art", "directory for generated images")
	cmd.Flags().StringVar(&docDir, "docs", "", "also update the Art field of matching documents in this directory")
	cmd.Flags().StringVar(&fromDocs, "from-docs", "", "read cards from the documents in this directory and update them")
	cmd.Flags().StringVar(&provider, "provider", "", "image provider: pollinations or stability (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always call the provider")
	filters.register(cmd)
	return cmd
}
