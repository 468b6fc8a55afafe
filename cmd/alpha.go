/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>
*/
package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/internal/ioalpha"
	"github.com/gnames/gndiv/pkg/config"
	"github.com/spf13/cobra"
)

// getAlphaCmd returns the alpha command.
func getAlphaCmd() *cobra.Command {
	var withAnnotation bool

	alphaCmd := &cobra.Command{
		Use:   "alpha [dataset]",
		Short: "Compute alpha-diversity indices",
		Long: `Compute per-sample alpha-diversity indices for a dataset.

For every sample the command reports observed richness, the Chao1
estimate with its standard error, the Shannon index and Pielou
evenness. Each index is then tested across the dataset's grouping
factors with ANOVA; a composite factor like 'site:month' yields a
two-way table with the interaction term.

Indices are computed on raw counts; no filtering or rarefaction is
applied at this stage.

Examples:
  # Analyze the first dataset from datasets.yaml
  gndiv alpha

  # Analyze a named dataset with taxonomy annotation
  gndiv alpha sediment16s -a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versionFlag(cmd)
			if len(args) > 0 {
				cfg.Update([]config.Option{config.OptDatasetName(args[0])})
			}
			if withAnnotation {
				cfg.Update([]config.Option{config.OptWithAnnotation(true)})
			}
			return runAlpha()
		},
	}

	alphaCmd.Flags().BoolVarP(&withAnnotation, "annotation", "a", false,
		"annotate taxa with parsed canonical names")

	return alphaCmd
}

func runAlpha() error {
	ctx := context.Background()

	analyzer := ioalpha.New(cfg)
	if err := analyzer.Analyze(ctx); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
