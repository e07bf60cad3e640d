package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mcsync version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mcsync %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
