package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/garagon/yarara/internal/types"
)

var flagAnalyzersJSON bool

var analyzersCmd = &cobra.Command{
	Use:   "analyzers",
	Short: "List discovered failure analyzers in execution order",
	RunE:  runAnalyzers,
}

func init() {
	analyzersCmd.Flags().BoolVar(&flagAnalyzersJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(analyzersCmd)
}

type analyzerInfo struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

func runAnalyzers(cmd *cobra.Command, args []string) error {
	loader, err := buildLoader(io.Discard)
	if err != nil {
		return err
	}

	var infos []analyzerInfo
	for _, a := range loader.Analyzers() {
		info := analyzerInfo{Name: a.Name()}
		if p, ok := a.(types.Prioritized); ok {
			info.Priority = p.Priority()
		}
		infos = append(infos, info)
	}

	out := cmd.OutOrStdout()
	if flagAnalyzersJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRIORITY")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\n", info.Name, info.Priority)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d analyzers\n", len(infos))
	return nil
}
