// Package wiring diagnoses dependency-lookup failures. It is the one
// builtin analyzer that asks for the shared container, so it can
// suggest providers whose names are close to the missing one.
package wiring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/garagon/yarara/internal/container"
	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"
)

func init() {
	registry.Default().MustRegisterAnalyzer("wiring", func() (types.Analyzer, error) {
		return &Analyzer{}, nil
	})
}

// Analyzer diagnoses container.NotFoundError failures.
type Analyzer struct {
	container types.Container
}

func (a *Analyzer) Name() string  { return "wiring" }
func (a *Analyzer) Priority() int { return -20 }

// SetContainer receives the shared dependency-lookup service.
func (a *Analyzer) SetContainer(c types.Container) {
	a.container = c
}

func (a *Analyzer) Analyze(failure error) *types.Diagnosis {
	var nf *container.NotFoundError
	if !errors.As(failure, &nf) {
		return nil
	}

	d := &types.Diagnosis{
		Description: fmt.Sprintf("A component required the dependency %q, but no provider with that name is registered.", nf.Name),
		Action:      fmt.Sprintf("Register a provider named %q before starting the application.", nf.Name),
		Cause:       failure,
	}
	if near := a.nearMatches(nf.Name); len(near) > 0 {
		d.Action = fmt.Sprintf("Register a provider named %q, or did you mean one of: %s?",
			nf.Name, strings.Join(near, ", "))
	}
	return d
}

// nearMatches returns provider names that look like typos of the missing
// one: case-insensitive equality, shared prefix, or substring overlap.
func (a *Analyzer) nearMatches(missing string) []string {
	lister, ok := a.container.(interface{ Names() []string })
	if !ok {
		return nil
	}
	lower := strings.ToLower(missing)
	var near []string
	for _, name := range lister.Names() {
		candidate := strings.ToLower(name)
		switch {
		case candidate == lower,
			strings.HasPrefix(candidate, lower) || strings.HasPrefix(lower, candidate),
			strings.Contains(candidate, lower) || strings.Contains(lower, candidate):
			near = append(near, name)
		}
	}
	return near
}
