package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garagon/yarara"
)

var flagRulesJSON bool

var listRulesCmd = &cobra.Command{
	Use:   "list-rules",
	Short: "List all failure-pattern rules",
	RunE:  runListRules,
}

func init() {
	listRulesCmd.Flags().BoolVar(&flagRulesJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listRulesCmd)
}

func runListRules(cmd *cobra.Command, args []string) error {
	var opts []yarara.Option
	if flagRules != "" {
		opts = append(opts, yarara.WithCustomRules(flagRules))
	}
	if len(flagDisableRules) > 0 {
		opts = append(opts, yarara.WithDisabledRules(flagDisableRules...))
	}

	infos, err := yarara.ListRules(opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagRulesJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRIORITY")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%d\n", info.ID, info.Name, info.Priority)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d rules\n", len(infos))
	return nil
}
