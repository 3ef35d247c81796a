package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garagon/yarara/internal/analyzer/logmatch"
	"github.com/garagon/yarara/internal/config"
	"github.com/garagon/yarara/internal/diag"
	"github.com/garagon/yarara/internal/history"
	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/report"
	"github.com/garagon/yarara/internal/types"

	// Builtin plugins self-register into the default registry.
	_ "github.com/garagon/yarara/internal/analyzer/ctxdiag"
	_ "github.com/garagon/yarara/internal/analyzer/fsdiag"
	_ "github.com/garagon/yarara/internal/analyzer/netdiag"
	_ "github.com/garagon/yarara/internal/analyzer/wiring"
)

var (
	flagSave        bool
	flagHistoryPath string
)

// osExit is swapped out in tests.
var osExit = os.Exit

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [file]",
	Short: "Diagnose a captured startup failure",
	Long:  `Diagnose reads captured startup output from a file (or stdin with "-"), runs all discovered failure analyzers over it, and reports the first diagnosis. Exits 1 when no analyzer recognizes the failure.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagnoseCmd.Flags().BoolVar(&flagSave, "save", false, "Record the diagnosis in the history journal")
	diagnoseCmd.Flags().StringVar(&flagHistoryPath, "history-path", "", "Path to history journal for --save (default: ~/.yarara/history.json)")
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	source := args[0]

	loadCLIConfig(cmd, source)

	output, err := readInput(cmd.InOrStdin(), source)
	if err != nil {
		return err
	}
	failure := &types.LogFailure{Source: source, Output: output}

	loader, err := buildLoader(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	handled, err := loader.AnalyzeAndReport(failure)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: reporting: %v\n", err)
	}
	if !handled {
		fmt.Fprintln(cmd.OutOrStdout(), "No analyzer recognized this failure.")
		osExit(1)
		return nil
	}

	if flagSave {
		saveToHistory(loader, failure, source)
	}
	return nil
}

// loadCLIConfig merges the .yarara.yml next to the input (or in the
// working directory for stdin) into unset flags.
func loadCLIConfig(cmd *cobra.Command, source string) {
	dir := source
	if source == "-" {
		dir = "."
	}
	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		flagFormat = cfg.Format
	}
	if !cmd.Flags().Changed("plugins") && cfg.PluginsFile != "" {
		flagPlugins = cfg.PluginsFile
	}
	if !cmd.Flags().Changed("rules") && cfg.Rules != "" {
		flagRules = cfg.Rules
	}
	if len(flagDisableRules) == 0 && len(cfg.DisableRules) > 0 {
		flagDisableRules = cfg.DisableRules
	}
	if !cmd.Flags().Changed("no-color") && cfg.NoColor {
		flagNoColor = true
	}
	if flagHistoryPath == "" && cfg.HistoryPath != "" {
		flagHistoryPath = cfg.HistoryPath
	}
}

func readInput(stdin io.Reader, source string) (string, error) {
	if source == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", source, err)
	}
	return string(data), nil
}

// buildLoader assembles the diagnostics loader for CLI use: analyzers
// from the default registry (narrowed by --plugins), exactly one output
// reporter matching --format, bound to the command's writer.
func buildLoader(out io.Writer) (*diag.Loader, error) {
	reg := registry.Default().Clone()

	// Rebind output reporters to the command writer so --format and
	// output redirection behave.
	if err := reg.ReplaceReporter("console", func() (types.Reporter, error) {
		r := report.NewConsole(out)
		if flagNoColor {
			r.NoColor = true
		}
		return r, nil
	}); err != nil {
		return nil, err
	}
	if err := reg.ReplaceReporter("json", func() (types.Reporter, error) {
		return report.NewJSON(out), nil
	}); err != nil {
		return nil, err
	}

	if flagRules != "" || len(flagDisableRules) > 0 {
		disabled := make(map[string]bool, len(flagDisableRules))
		for _, id := range flagDisableRules {
			disabled[strings.ToUpper(strings.TrimSpace(id))] = true
		}
		customDir := flagRules
		if err := reg.ReplaceAnalyzer("logmatch", func() (types.Analyzer, error) {
			return logmatch.Load(customDir, disabled)
		}); err != nil {
			return nil, err
		}
	}

	manifest := &registry.Manifest{}
	if flagPlugins != "" {
		m, err := registry.LoadManifest(flagPlugins)
		if err != nil {
			return nil, err
		}
		manifest.Analyzers = m.Analyzers
	}
	switch strings.ToLower(flagFormat) {
	case "json":
		manifest.Reporters = []string{"json"}
	case "console", "":
		manifest.Reporters = []string{"console"}
	default:
		return nil, fmt.Errorf("invalid --format %q (console, json)", flagFormat)
	}

	opts := []diag.Option{diag.WithManifest(manifest)}
	if flagVerbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			opts = append(opts, diag.WithLogger(logger))
		}
	}
	return diag.NewLoader(reg, opts...), nil
}

// saveToHistory re-runs the (pure) analysis half to capture the
// diagnosis value and appends it to the journal. Journal errors are
// warnings, never fatal.
func saveToHistory(loader *diag.Loader, failure error, source string) {
	d := loader.Diagnose(failure)
	if d == nil {
		return
	}

	path := flagHistoryPath
	if path == "" {
		path = history.DefaultPath()
	}
	journal := history.New(path)
	if err := journal.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: loading history: %v\n", err)
		return
	}
	journal.Append(d, source)
	if err := journal.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: saving history: %v\n", err)
	}
}
