// Package diag implements the failure diagnostics loader: it discovers
// analyzer plugins from a registry, runs them in priority order against a
// startup failure, and fans the first diagnosis out to every discovered
// reporter.
package diag

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"
)

// Loader holds the analyzers discovered at construction time. Reporters
// are re-discovered on every AnalyzeAndReport call, so a reporter
// registered after the Loader was built is still picked up.
type Loader struct {
	reg       *registry.Registry
	manifest  *registry.Manifest
	container types.Container
	log       *zap.Logger
	analyzers []types.Analyzer
}

// Option configures a Loader.
type Option func(*Loader)

// WithContainer sets the dependency-lookup service injected into
// container-aware analyzers.
func WithContainer(c types.Container) Option {
	return func(l *Loader) {
		l.container = c
	}
}

// WithManifest restricts discovery to the plugin names listed in a
// parsed plugins file.
func WithManifest(m *registry.Manifest) Option {
	return func(l *Loader) {
		l.manifest = m
	}
}

// WithLogger sets the logger used for discovery diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader discovers and prepares all analyzer plugins from reg.
// Analyzers whose factory fails are logged at debug level and skipped;
// a partially broken plugin set is never fatal. The surviving analyzers
// are sorted by priority and wired to the container before any
// analysis runs.
func NewLoader(reg *registry.Registry, opts ...Option) *Loader {
	l := &Loader{
		reg: reg,
		log: zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}
	l.analyzers = l.loadAnalyzers()
	l.prepareAnalyzers()
	return l
}

// Analyzers returns the discovered analyzers in execution order.
func (l *Loader) Analyzers() []types.Analyzer {
	return l.analyzers
}

// Diagnose runs only the analysis half of the pipeline: the first
// analyzer producing a diagnosis wins, nothing is reported.
func (l *Loader) Diagnose(failure error) *types.Diagnosis {
	return l.analyze(failure)
}

// AnalyzeAndReport analyzes and reports the given failure. It returns
// true if some analyzer produced a diagnosis and at least one reporter
// was discovered to present it. Reporter errors do not stop the
// fan-out; they are joined and returned alongside handled=true.
func (l *Loader) AnalyzeAndReport(failure error) (bool, error) {
	d := l.analyze(failure)
	return l.report(d)
}

func (l *Loader) loadAnalyzers() []types.Analyzer {
	names := l.reg.AnalyzerNames()
	if l.manifest != nil && l.manifest.Analyzers != nil {
		names = l.manifest.Analyzers
	}

	var analyzers []types.Analyzer
	for _, name := range names {
		factory := l.reg.Analyzer(name)
		if factory == nil {
			l.log.Debug("skipping unknown analyzer", zap.String("analyzer", name))
			continue
		}
		a, err := factory()
		if err != nil {
			l.log.Debug("skipping analyzer that failed to construct",
				zap.String("analyzer", name), zap.Error(err))
			continue
		}
		analyzers = append(analyzers, a)
	}

	sort.SliceStable(analyzers, func(i, j int) bool {
		return priorityOf(analyzers[i]) < priorityOf(analyzers[j])
	})
	return analyzers
}

func (l *Loader) prepareAnalyzers() {
	if l.container == nil {
		return
	}
	for _, a := range l.analyzers {
		if aware, ok := a.(types.ContainerAware); ok {
			aware.SetContainer(l.container)
		}
	}
}

// analyze asks each analyzer in priority order; the first non-nil
// diagnosis wins and later analyzers are never invoked.
func (l *Loader) analyze(failure error) *types.Diagnosis {
	for _, a := range l.analyzers {
		if d := a.Analyze(failure); d != nil {
			if d.Analyzer == "" {
				d.Analyzer = a.Name()
			}
			return d
		}
	}
	return nil
}

// report discovers reporters fresh and invokes each exactly once.
func (l *Loader) report(d *types.Diagnosis) (bool, error) {
	reporters := l.loadReporters()
	if d == nil || len(reporters) == 0 {
		return false, nil
	}
	var errs []error
	for _, r := range reporters {
		if err := r.Report(d); err != nil {
			errs = append(errs, err)
		}
	}
	return true, errors.Join(errs...)
}

func (l *Loader) loadReporters() []types.Reporter {
	names := l.reg.ReporterNames()
	if l.manifest != nil && l.manifest.Reporters != nil {
		names = l.manifest.Reporters
	}

	var reporters []types.Reporter
	for _, name := range names {
		factory := l.reg.Reporter(name)
		if factory == nil {
			l.log.Debug("skipping unknown reporter", zap.String("reporter", name))
			continue
		}
		r, err := factory()
		if err != nil {
			l.log.Debug("skipping reporter that failed to construct",
				zap.String("reporter", name), zap.Error(err))
			continue
		}
		reporters = append(reporters, r)
	}
	return reporters
}

func priorityOf(a types.Analyzer) int {
	if p, ok := a.(types.Prioritized); ok {
		return p.Priority()
	}
	return 0
}
