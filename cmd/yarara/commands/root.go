package commands

import (
	"github.com/spf13/cobra"
)

var (
	flagFormat       string
	flagNoColor      bool
	flagPlugins      string
	flagRules        string
	flagDisableRules []string
	flagVerbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "yarara",
	Short: "Startup-failure diagnostics for applications",
	Long:  `Yarara turns opaque application startup failures into human-readable diagnoses by running pluggable failure analyzers over captured output and reporting the first match.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "console", "Output format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagPlugins, "plugins", "", "Plugins file restricting which analyzers run")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Additional failure-pattern rules directory")
	rootCmd.PersistentFlags().StringSliceVar(&flagDisableRules, "disable-rule", nil, "Rule IDs to disable (comma-separated, repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log plugin discovery details to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
