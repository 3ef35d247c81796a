package ctxdiag_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garagon/yarara/internal/registry"

	_ "github.com/garagon/yarara/internal/analyzer/ctxdiag"
)

func TestTimeoutAnalyzer(t *testing.T) {
	factory := registry.Default().Analyzer("timeout")
	require.NotNil(t, factory)
	a, err := factory()
	require.NoError(t, err)

	d := a.Analyze(fmt.Errorf("waiting for database: %w", context.DeadlineExceeded))
	require.NotNil(t, d)
	require.Contains(t, d.Description, "deadline")

	d = a.Analyze(context.Canceled)
	require.NotNil(t, d)
	require.Contains(t, d.Description, "canceled")

	require.Nil(t, a.Analyze(errors.New("unrelated")))
}
