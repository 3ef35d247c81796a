// Package registry holds the named plugin factories the loader discovers
// analyzers and reporters from, and parses the optional plugins file that
// narrows and orders which of them are active.
package registry

import (
	"fmt"
	"sync"

	"github.com/garagon/yarara/internal/types"
)

// AnalyzerFactory constructs one analyzer instance. A returned error marks
// the plugin as unavailable; discovery skips it.
type AnalyzerFactory func() (types.Analyzer, error)

// ReporterFactory constructs one reporter instance.
type ReporterFactory func() (types.Reporter, error)

// Registry maps plugin names to their factories. It is safe for
// concurrent registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	analyzers map[string]AnalyzerFactory
	reporters map[string]ReporterFactory
	// registration order, so discovery without a plugins file is deterministic
	analyzerNames []string
	reporterNames []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		analyzers: make(map[string]AnalyzerFactory),
		reporters: make(map[string]ReporterFactory),
	}
}

var defaultRegistry = New()

// Default returns the process-wide registry that builtin plugins
// self-register into.
func Default() *Registry {
	return defaultRegistry
}

// RegisterAnalyzer adds an analyzer factory under the given name.
func (r *Registry) RegisterAnalyzer(name string, f AnalyzerFactory) error {
	if name == "" {
		return fmt.Errorf("analyzer name must not be empty")
	}
	if f == nil {
		return fmt.Errorf("analyzer %q: factory must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.analyzers[name]; exists {
		return fmt.Errorf("analyzer %q is already registered", name)
	}
	r.analyzers[name] = f
	r.analyzerNames = append(r.analyzerNames, name)
	return nil
}

// RegisterReporter adds a reporter factory under the given name.
func (r *Registry) RegisterReporter(name string, f ReporterFactory) error {
	if name == "" {
		return fmt.Errorf("reporter name must not be empty")
	}
	if f == nil {
		return fmt.Errorf("reporter %q: factory must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reporters[name]; exists {
		return fmt.Errorf("reporter %q is already registered", name)
	}
	r.reporters[name] = f
	r.reporterNames = append(r.reporterNames, name)
	return nil
}

// MustRegisterAnalyzer is RegisterAnalyzer for package init blocks.
func (r *Registry) MustRegisterAnalyzer(name string, f AnalyzerFactory) {
	if err := r.RegisterAnalyzer(name, f); err != nil {
		panic(err)
	}
}

// MustRegisterReporter is RegisterReporter for package init blocks.
func (r *Registry) MustRegisterReporter(name string, f ReporterFactory) {
	if err := r.RegisterReporter(name, f); err != nil {
		panic(err)
	}
}

// Clone returns an independent copy of the registry. Used when a caller
// needs to replace a builtin factory without touching the shared default.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := New()
	for name, f := range r.analyzers {
		c.analyzers[name] = f
	}
	for name, f := range r.reporters {
		c.reporters[name] = f
	}
	c.analyzerNames = append(c.analyzerNames, r.analyzerNames...)
	c.reporterNames = append(c.reporterNames, r.reporterNames...)
	return c
}

// ReplaceAnalyzer swaps the factory for an already registered analyzer,
// keeping its position in the registration order.
func (r *Registry) ReplaceAnalyzer(name string, f AnalyzerFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.analyzers[name]; !exists {
		return fmt.Errorf("analyzer %q is not registered", name)
	}
	r.analyzers[name] = f
	return nil
}

// ReplaceReporter swaps the factory for an already registered reporter,
// keeping its position in the registration order.
func (r *Registry) ReplaceReporter(name string, f ReporterFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reporters[name]; !exists {
		return fmt.Errorf("reporter %q is not registered", name)
	}
	r.reporters[name] = f
	return nil
}

// Analyzer returns the factory for the given name, or nil if unknown.
func (r *Registry) Analyzer(name string) AnalyzerFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.analyzers[name]
}

// Reporter returns the factory for the given name, or nil if unknown.
func (r *Registry) Reporter(name string) ReporterFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reporters[name]
}

// AnalyzerNames returns all registered analyzer names in registration order.
func (r *Registry) AnalyzerNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.analyzerNames))
	copy(names, r.analyzerNames)
	return names
}

// ReporterNames returns all registered reporter names in registration order.
func (r *Registry) ReporterNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.reporterNames))
	copy(names, r.reporterNames)
	return names
}
