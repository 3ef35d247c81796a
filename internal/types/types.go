// Package types defines the shared contracts (Diagnosis, Analyzer, Reporter,
// Container) used across the loader, registry, and plugin packages to
// prevent import cycles.
package types

import (
	"encoding/json"
	"errors"
	"strings"
)

// Diagnosis describes one successfully analyzed startup failure.
// It is produced by at most one analyzer per AnalyzeAndReport attempt.
type Diagnosis struct {
	// Description tells the user what went wrong, in plain language.
	Description string `json:"description"`
	// Action tells the user what to do about it. May be empty.
	Action string `json:"action,omitempty"`
	// Analyzer is the name of the plugin that produced this diagnosis.
	Analyzer string `json:"analyzer"`
	// Cause is the underlying failure.
	Cause error `json:"-"`
}

// MarshalJSON serializes Cause as its error string.
func (d Diagnosis) MarshalJSON() ([]byte, error) {
	type Alias Diagnosis
	cause := ""
	if d.Cause != nil {
		cause = d.Cause.Error()
	}
	return json.Marshal(struct {
		Alias
		Cause string `json:"cause,omitempty"`
	}{
		Alias: Alias(d),
		Cause: cause,
	})
}

// Analyzer is the interface all failure analyzer plugins implement.
// Analyze returns nil to decline a failure it cannot diagnose.
type Analyzer interface {
	Name() string
	Analyze(failure error) *Diagnosis
}

// Reporter is the interface all diagnosis reporter plugins implement.
type Reporter interface {
	Name() string
	Report(d *Diagnosis) error
}

// Prioritized is an optional interface for analyzers that declare an
// execution priority. Lower values run earlier. Analyzers without it
// default to priority 0.
type Prioritized interface {
	Priority() int
}

// Container is the dependency-lookup service shared with analyzers
// that need more than the failure value to produce a diagnosis.
type Container interface {
	Lookup(name string) (any, bool)
}

// ContainerAware is an optional interface for analyzers that want the
// shared Container injected before any analysis runs.
type ContainerAware interface {
	SetContainer(c Container)
}

// LogFailure wraps captured process output so text-oriented analyzers
// can diagnose failures recorded in logs rather than live error values.
type LogFailure struct {
	Source string // where the output came from, e.g. a file path or "stdin"
	Output string
}

// Error returns the first non-empty line of the captured output.
func (f *LogFailure) Error() string {
	for _, line := range strings.Split(f.Output, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return "startup failed (empty output)"
}

// Text returns the full text an analyzer should inspect for the given
// failure: the captured output for a LogFailure, the error string otherwise.
func Text(failure error) string {
	if failure == nil {
		return ""
	}
	var lf *LogFailure
	if errors.As(failure, &lf) {
		return lf.Output
	}
	return failure.Error()
}
