package fsdiag_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"

	_ "github.com/garagon/yarara/internal/analyzer/fsdiag"
)

func fromDefault(t *testing.T, name string) types.Analyzer {
	t.Helper()
	factory := registry.Default().Analyzer(name)
	require.NotNil(t, factory, "analyzer %q not registered", name)
	a, err := factory()
	require.NoError(t, err)
	return a
}

func TestFileNotFoundWithPath(t *testing.T) {
	a := fromDefault(t, "filenotfound")

	failure := fmt.Errorf("loading config: %w", &fs.PathError{
		Op:   "open",
		Path: "/etc/app/config.yml",
		Err:  fs.ErrNotExist,
	})
	d := a.Analyze(failure)
	require.NotNil(t, d)
	require.Contains(t, d.Description, "/etc/app/config.yml")
	require.Contains(t, d.Description, "does not exist")
}

func TestFileNotFoundWithoutPath(t *testing.T) {
	a := fromDefault(t, "filenotfound")

	d := a.Analyze(fmt.Errorf("lookup: %w", fs.ErrNotExist))
	require.NotNil(t, d)
	require.Contains(t, d.Description, "does not exist")
}

func TestFileNotFoundDeclines(t *testing.T) {
	a := fromDefault(t, "filenotfound")
	require.Nil(t, a.Analyze(errors.New("unrelated")))
}

func TestPermissionDenied(t *testing.T) {
	a := fromDefault(t, "permission")

	failure := &fs.PathError{
		Op:   "open",
		Path: "/var/lib/app/data.db",
		Err:  fs.ErrPermission,
	}
	d := a.Analyze(failure)
	require.NotNil(t, d)
	require.Contains(t, d.Description, "/var/lib/app/data.db")
	require.Contains(t, d.Action, "ownership")

	require.Nil(t, a.Analyze(fs.ErrNotExist))
}
