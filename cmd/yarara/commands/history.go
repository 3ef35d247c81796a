package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garagon/yarara/internal/history"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded diagnoses",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 10, "Maximum entries to show (0 = all)")
	historyCmd.Flags().StringVar(&flagHistoryPath, "history-path", "", "Path to history journal (default: ~/.yarara/history.json)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := flagHistoryPath
	if path == "" {
		path = history.DefaultPath()
	}

	journal := history.New(path)
	if err := journal.Load(); err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	entries := journal.Recent(flagHistoryLimit)
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No recorded diagnoses. Run diagnose --save to start the journal.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tANALYZER\tSOURCE\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp, e.Analyzer, e.Source, e.Description)
	}
	return w.Flush()
}
