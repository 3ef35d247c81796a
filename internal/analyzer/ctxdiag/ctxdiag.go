// Package ctxdiag diagnoses startup failures caused by context
// expiration: initialization deadlines and external cancellation.
package ctxdiag

import (
	"context"
	"errors"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"
)

func init() {
	registry.Default().MustRegisterAnalyzer("timeout", func() (types.Analyzer, error) {
		return timeout{}, nil
	})
}

type timeout struct{}

func (timeout) Name() string { return "timeout" }

func (timeout) Analyze(failure error) *types.Diagnosis {
	switch {
	case errors.Is(failure, context.DeadlineExceeded):
		return &types.Diagnosis{
			Description: "Startup did not complete within its deadline.",
			Action:      "Raise the startup timeout, or investigate which initialization step is slow (often a dependency waiting for a connection).",
			Cause:       failure,
		}
	case errors.Is(failure, context.Canceled):
		return &types.Diagnosis{
			Description: "Startup was canceled before it completed, usually by a shutdown signal.",
			Action:      "Check whether the process received a termination signal (orchestrator restart, operator interrupt) while still initializing.",
			Cause:       failure,
		}
	}
	return nil
}
