/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>
*/
package cmd

import (
	"context"
	"path/filepath"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/internal/iobeta"
	"github.com/gnames/gndiv/internal/iocache"
	"github.com/gnames/gndiv/pkg/config"
	"github.com/spf13/cobra"
)

// getBetaCmd returns the beta command.
func getBetaCmd() *cobra.Command {
	var noCache, clearCache bool

	betaCmd := &cobra.Command{
		Use:   "beta [dataset]",
		Short: "Compute beta-diversity statistics",
		Long: `Compute beta-diversity statistics for a dataset.

The pipeline filters rare taxa by prevalence, rarefies all samples to
even depth with a fixed seed, computes the Bray-Curtis distance
matrix, ordinates it with PCoA and tests each grouping factor with
PERMANOVA.

Intermediate artifacts (the rarefied table and the distance matrix)
are cached; the cache key includes the input file digest and all
filter and rarefaction parameters, so edits to inputs or settings
invalidate it automatically.

Examples:
  # Analyze the first dataset from datasets.yaml
  gndiv beta

  # Recompute everything, ignoring the cache
  gndiv beta sediment16s --no-cache`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versionFlag(cmd)
			if clearCache {
				if err := resetCache(); err != nil {
					gn.PrintErrorMessage(err)
					return err
				}
			}
			if len(args) > 0 {
				cfg.Update([]config.Option{config.OptDatasetName(args[0])})
			}
			if noCache {
				cfg.Update([]config.Option{config.OptNoCache(true)})
			}
			return runBeta()
		},
	}

	betaCmd.Flags().BoolVar(&noCache, "no-cache", false,
		"recompute intermediate results, ignoring the cache")
	betaCmd.Flags().BoolVar(&clearCache, "clear-cache", false,
		"remove all cached intermediate results before the run")

	return betaCmd
}

func runBeta() error {
	ctx := context.Background()

	analyzer := iobeta.New(cfg)
	if err := analyzer.Analyze(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}

func resetCache() error {
	dir := filepath.Join(config.CacheDir(cfg.HomeDir), "beta")
	cache, err := iocache.New(dir)
	if err != nil {
		return err
	}
	if err = cache.Clear(); err != nil {
		return err
	}
	gn.Info("Cache at <em>%s</em> is cleared", dir)
	return nil
}
