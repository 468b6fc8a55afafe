/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gndiv/internal/iodatasets"
	"github.com/gnames/gndiv/pkg/config"
	"github.com/spf13/cobra"
)

// getDatasetsCmd returns the datasets command.
func getDatasetsCmd() *cobra.Command {
	datasetsCmd := &cobra.Command{
		Use:   "datasets",
		Short: "List and validate configured datasets",
		Long: `List the datasets configured in datasets.yaml and report
validation problems such as missing files or unusable factor names.

Examples:
  gndiv datasets`,
		RunE: func(cmd *cobra.Command, args []string) error {
			versionFlag(cmd)
			return runDatasets()
		},
	}

	return datasetsCmd
}

func runDatasets() error {
	manifest, err := iodatasets.New(cfg).Load()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if len(manifest.Datasets) == 0 {
		gn.Warn(
			"No datasets found, add them to <em>%s</em>",
			config.DatasetsFilePath(cfg.HomeDir),
		)
		return nil
	}

	for _, ds := range manifest.Datasets {
		fmt.Printf("%s\n", ds.Name)
		fmt.Printf("  abundance: %s\n", ds.Abundance)
		fmt.Printf("  metadata:  %s\n", ds.Metadata)
		if ds.Taxonomy != "" {
			fmt.Printf("  taxonomy:  %s\n", ds.Taxonomy)
		}
		fmt.Printf("  factors:   %s\n", strings.Join(ds.Factors, ", "))
	}

	for _, w := range manifest.Warnings {
		gn.Warn("Dataset <em>%s</em>, %s: %s (%s)",
			w.Dataset, w.Field, w.Message, w.Suggestion)
	}
	return nil
}
