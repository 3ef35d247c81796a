package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garagon/yarara"
)

var explainCmd = &cobra.Command{
	Use:   "explain <rule-id>",
	Short: "Show full details of a failure-pattern rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	var opts []yarara.Option
	if flagRules != "" {
		opts = append(opts, yarara.WithCustomRules(flagRules))
	}

	detail, err := yarara.ExplainRule(args[0], opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if strings.ToLower(flagFormat) == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	fmt.Fprintf(out, "%s: %s (priority %d)\n\n", detail.ID, detail.Name, detail.Priority)
	fmt.Fprintf(out, "Diagnosis:\n  %s\n", detail.Description)
	if detail.Action != "" {
		fmt.Fprintf(out, "\nAction:\n  %s\n", detail.Action)
	}
	fmt.Fprintln(out, "\nPatterns:")
	for _, p := range detail.Patterns {
		fmt.Fprintf(out, "  %s\n", p)
	}
	if len(detail.Matching) > 0 {
		fmt.Fprintln(out, "\nMatches outputs like:")
		for _, ex := range detail.Matching {
			fmt.Fprintf(out, "  %s\n", ex)
		}
	}
	if len(detail.NonMatching) > 0 {
		fmt.Fprintln(out, "\nDoes not match:")
		for _, ex := range detail.NonMatching {
			fmt.Fprintf(out, "  %s\n", ex)
		}
	}
	return nil
}
