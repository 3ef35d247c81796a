// Package logmatch is the rule-driven text analyzer. It matches captured
// startup output (or any error's text) against YAML failure-pattern
// rules and emits the diagnosis of the first matching rule. It runs
// after all typed analyzers have declined.
package logmatch

import (
	"fmt"
	"strings"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/rules"
	"github.com/garagon/yarara/internal/rules/builtin"
	"github.com/garagon/yarara/internal/types"
)

func init() {
	registry.Default().MustRegisterAnalyzer("logmatch", func() (types.Analyzer, error) {
		return NewBuiltin()
	})
}

// Analyzer matches failure text against compiled rules in priority order.
type Analyzer struct {
	rules []*rules.CompiledRule
}

// New creates an Analyzer over an already compiled rule set.
func New(compiled []*rules.CompiledRule) *Analyzer {
	return &Analyzer{rules: compiled}
}

// NewBuiltin creates an Analyzer from the embedded builtin rules only.
func NewBuiltin() (*Analyzer, error) {
	return Load("", nil)
}

// Load creates an Analyzer from builtin rules plus an optional custom
// rules directory, minus any disabled rule IDs. Individual rules that
// fail to compile are dropped; the load only fails when no rule survives.
func Load(customDir string, disabled map[string]bool) (*Analyzer, error) {
	raw, err := rules.LoadFromFS(builtin.FS())
	if err != nil {
		return nil, fmt.Errorf("loading built-in rules: %w", err)
	}
	if customDir != "" {
		custom, err := rules.LoadFromDir(customDir)
		if err != nil {
			return nil, fmt.Errorf("loading custom rules from %s: %w", customDir, err)
		}
		raw = append(raw, custom...)
	}

	compiled, errs := rules.CompileAll(raw)
	compiled = rules.FilterByIDs(compiled, disabled)
	if len(compiled) == 0 {
		if len(errs) > 0 {
			return nil, fmt.Errorf("no usable rules: %v", errs[0])
		}
		return nil, fmt.Errorf("no usable rules")
	}
	return New(compiled), nil
}

func (a *Analyzer) Name() string  { return "logmatch" }
func (a *Analyzer) Priority() int { return 100 }

// Rules returns the compiled rule set in evaluation order.
func (a *Analyzer) Rules() []*rules.CompiledRule {
	return a.rules
}

func (a *Analyzer) Analyze(failure error) *types.Diagnosis {
	text := types.Text(failure)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for _, r := range a.rules {
		if m := r.Evaluate(text); m != nil {
			return &types.Diagnosis{
				Description: m.Description,
				Action:      m.Action,
				Cause:       failure,
			}
		}
	}
	return nil
}
