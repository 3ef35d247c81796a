package report

import (
	"go.uber.org/zap"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"
)

func init() {
	registry.Default().MustRegisterReporter("log", func() (types.Reporter, error) {
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, err
		}
		return NewLog(logger), nil
	})
}

// LogReporter emits a diagnosis as one structured error-level record.
type LogReporter struct {
	log *zap.Logger
}

// NewLog creates a LogReporter over the given logger.
func NewLog(log *zap.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Name() string { return "log" }

func (r *LogReporter) Report(d *types.Diagnosis) error {
	fields := []zap.Field{
		zap.String("analyzer", d.Analyzer),
		zap.String("action", d.Action),
	}
	if d.Cause != nil {
		fields = append(fields, zap.NamedError("cause", d.Cause))
	}
	r.log.Error(d.Description, fields...)
	return nil
}
