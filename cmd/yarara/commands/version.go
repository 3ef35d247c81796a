package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garagon/yarara/internal/update"
)

// Version and Commit are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "yarara %s (commit: %s)\n", Version, Commit)
		if r := update.CheckLatest(Version, "garagon/yarara"); r != nil && r.NeedsUpdate() {
			fmt.Fprintf(cmd.OutOrStdout(), "\nA newer release %s is available:\n  %s\n", r.Latest, r.UpdateURL)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
