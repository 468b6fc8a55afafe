package cmd

import (
	"fmt"
	"os"

	"github.com/gnames/gndiv/pkg/gndiv"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", gndiv.Version, gndiv.Build)
		os.Exit(0)
	}
}
