package yarara

import (
	"go.uber.org/zap"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"
)

// loadConfig holds the resolved configuration for building a Diagnoser.
type loadConfig struct {
	registry       *registry.Registry
	container      types.Container
	pluginsFile    string
	customRulesDir string
	disabledRules  []string
	logger         *zap.Logger
}

// Option configures a Diagnoser.
type Option func(*loadConfig)

// WithContainer shares a dependency-lookup service with analyzers that
// declare the need for one.
func WithContainer(c Lookup) Option {
	return func(cfg *loadConfig) {
		cfg.container = c
	}
}

// WithPluginsFile restricts and orders plugin discovery with a plugins
// file instead of using everything registered.
func WithPluginsFile(path string) Option {
	return func(cfg *loadConfig) {
		cfg.pluginsFile = path
	}
}

// WithCustomRules loads additional failure-pattern rules from a directory.
func WithCustomRules(dir string) Option {
	return func(cfg *loadConfig) {
		cfg.customRulesDir = dir
	}
}

// WithDisabledRules excludes specific failure-pattern rule IDs.
func WithDisabledRules(ids ...string) Option {
	return func(cfg *loadConfig) {
		cfg.disabledRules = append(cfg.disabledRules, ids...)
	}
}

// WithLogger sets the logger used for plugin discovery diagnostics.
// Skipped plugins are logged at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(cfg *loadConfig) {
		cfg.logger = log
	}
}

// WithRegistry uses a private plugin registry instead of the shared
// default one.
func WithRegistry(reg *Registry) Option {
	return func(cfg *loadConfig) {
		cfg.registry = reg
	}
}
