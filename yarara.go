// Package yarara provides a public API for diagnosing application
// startup failures through pluggable analyzers and reporters.
//
// This is the library entry point. For the CLI tool, see cmd/yarara/.
package yarara

import (
	"fmt"
	"sort"
	"strings"

	"github.com/garagon/yarara/internal/analyzer/logmatch"
	"github.com/garagon/yarara/internal/container"
	"github.com/garagon/yarara/internal/diag"
	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/rules"
	"github.com/garagon/yarara/internal/types"

	// Builtin plugins self-register into the default registry.
	_ "github.com/garagon/yarara/internal/analyzer/ctxdiag"
	_ "github.com/garagon/yarara/internal/analyzer/fsdiag"
	_ "github.com/garagon/yarara/internal/analyzer/netdiag"
	_ "github.com/garagon/yarara/internal/analyzer/wiring"
	_ "github.com/garagon/yarara/internal/report"
)

// Re-export core types from internal packages so consumers don't need
// to import them.
type (
	Diagnosis  = types.Diagnosis
	Analyzer   = types.Analyzer
	Reporter   = types.Reporter
	LogFailure = types.LogFailure

	// Lookup is the dependency-lookup capability injected into
	// container-aware analyzers.
	Lookup = types.Container
	// Container is the builtin map-backed Lookup implementation.
	Container = container.Container

	// Registry maps plugin names to factories.
	Registry = registry.Registry
)

// NewRegistry creates an empty plugin registry, for callers that want
// full control over the active plugin set instead of the shared default.
func NewRegistry() *Registry {
	return registry.New()
}

// NewContainer creates an empty dependency container.
func NewContainer() *Container {
	return container.New()
}

// RegisterAnalyzer adds an analyzer factory to the default registry so
// the next New picks it up.
func RegisterAnalyzer(name string, factory func() (Analyzer, error)) error {
	return registry.Default().RegisterAnalyzer(name, factory)
}

// RegisterReporter adds a reporter factory to the default registry.
func RegisterReporter(name string, factory func() (Reporter, error)) error {
	return registry.Default().RegisterReporter(name, factory)
}

// Diagnoser analyzes and reports startup failures. Analyzers are
// discovered once at construction; reporters are re-discovered on every
// AnalyzeAndReport call.
type Diagnoser struct {
	loader *diag.Loader
}

// New builds a Diagnoser from the registered plugins.
func New(opts ...Option) (*Diagnoser, error) {
	cfg := applyOpts(opts)
	loader, err := buildLoader(cfg)
	if err != nil {
		return nil, err
	}
	return &Diagnoser{loader: loader}, nil
}

// AnalyzeAndReport asks each analyzer in priority order to diagnose the
// failure and hands the first diagnosis to every discovered reporter.
// It returns true if the failure was diagnosed and reported.
func (d *Diagnoser) AnalyzeAndReport(failure error) (bool, error) {
	return d.loader.AnalyzeAndReport(failure)
}

// AnalyzerInfo provides summary metadata about a discovered analyzer.
type AnalyzerInfo struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

// ListAnalyzers returns the analyzers a Diagnoser built with the same
// options would run, in execution order.
func ListAnalyzers(opts ...Option) ([]AnalyzerInfo, error) {
	cfg := applyOpts(opts)
	loader, err := buildLoader(cfg)
	if err != nil {
		return nil, err
	}
	analyzers := loader.Analyzers()
	infos := make([]AnalyzerInfo, len(analyzers))
	for i, a := range analyzers {
		infos[i] = AnalyzerInfo{Name: a.Name()}
		if p, ok := a.(types.Prioritized); ok {
			infos[i].Priority = p.Priority()
		}
	}
	return infos, nil
}

// RuleInfo provides summary metadata about a failure-pattern rule.
type RuleInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

// RuleDetail provides full information about a rule, including patterns
// and example outputs.
type RuleDetail struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Priority    int      `json:"priority"`
	Description string   `json:"description"`
	Action      string   `json:"action,omitempty"`
	Patterns    []string `json:"patterns"`
	Matching    []string `json:"matching,omitempty"`
	NonMatching []string `json:"non_matching,omitempty"`
}

// ListRules returns the failure-pattern rules the logmatch analyzer
// would evaluate, sorted by ID.
func ListRules(opts ...Option) ([]RuleInfo, error) {
	compiled, err := loadRules(applyOpts(opts))
	if err != nil {
		return nil, err
	}
	sort.Slice(compiled, func(i, j int) bool {
		return compiled[i].ID < compiled[j].ID
	})
	infos := make([]RuleInfo, len(compiled))
	for i, r := range compiled {
		infos[i] = RuleInfo{ID: r.ID, Name: r.Name, Priority: r.Priority}
	}
	return infos, nil
}

// ExplainRule returns detailed information about a specific
// failure-pattern rule.
func ExplainRule(id string, opts ...Option) (*RuleDetail, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	compiled, err := loadRules(applyOpts(opts))
	if err != nil {
		return nil, err
	}

	var found *rules.CompiledRule
	for _, r := range compiled {
		if r.ID == id {
			found = r
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("rule %q not found", id)
	}

	patterns := make([]string, len(found.Patterns))
	for i, p := range found.Patterns {
		switch p.Type {
		case rules.PatternRegex:
			patterns[i] = fmt.Sprintf("[regex] %s", p.Regex.String())
		case rules.PatternContains:
			patterns[i] = fmt.Sprintf("[contains] %s", p.Value)
		}
	}

	return &RuleDetail{
		ID:          found.ID,
		Name:        found.Name,
		Priority:    found.Priority,
		Description: found.Diagnosis.Description,
		Action:      found.Diagnosis.Action,
		Patterns:    patterns,
		Matching:    found.Examples.Matching,
		NonMatching: found.Examples.NonMatching,
	}, nil
}

// --- internal helpers ---

func applyOpts(opts []Option) *loadConfig {
	cfg := &loadConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// buildLoader wires registry, plugins file, and container into a Loader.
func buildLoader(cfg *loadConfig) (*diag.Loader, error) {
	reg := cfg.registry
	if reg == nil {
		reg = registry.Default()
	}

	// A custom rule set means the registered logmatch factory is
	// replaced on a private copy, never on the shared registry.
	if cfg.customRulesDir != "" || len(cfg.disabledRules) > 0 {
		reg = reg.Clone()
		disabled := disabledSet(cfg.disabledRules)
		customDir := cfg.customRulesDir
		if err := reg.ReplaceAnalyzer("logmatch", func() (types.Analyzer, error) {
			return logmatch.Load(customDir, disabled)
		}); err != nil {
			return nil, fmt.Errorf("configuring rules: %w", err)
		}
	}

	loaderOpts := []diag.Option{}
	if cfg.container != nil {
		loaderOpts = append(loaderOpts, diag.WithContainer(cfg.container))
	}
	if cfg.logger != nil {
		loaderOpts = append(loaderOpts, diag.WithLogger(cfg.logger))
	}
	if cfg.pluginsFile != "" {
		manifest, err := registry.LoadManifest(cfg.pluginsFile)
		if err != nil {
			return nil, err
		}
		loaderOpts = append(loaderOpts, diag.WithManifest(manifest))
	}

	return diag.NewLoader(reg, loaderOpts...), nil
}

func loadRules(cfg *loadConfig) ([]*rules.CompiledRule, error) {
	a, err := logmatch.Load(cfg.customRulesDir, disabledSet(cfg.disabledRules))
	if err != nil {
		return nil, err
	}
	return a.Rules(), nil
}

func disabledSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	disabled := make(map[string]bool, len(ids))
	for _, id := range ids {
		disabled[strings.ToUpper(strings.TrimSpace(id))] = true
	}
	return disabled
}
