package history_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garagon/yarara/internal/history"
	"github.com/garagon/yarara/internal/types"
)

func TestAppendSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	j := history.New(path)
	require.NoError(t, j.Load())

	entry := j.Append(&types.Diagnosis{
		Description: "port in use",
		Action:      "free the port",
		Analyzer:    "portinuse",
	}, "app.log")
	require.NotEmpty(t, entry.ID)
	require.NotEmpty(t, entry.Timestamp)
	require.NoError(t, j.Save())

	reloaded := history.New(path)
	require.NoError(t, reloaded.Load())
	entries := reloaded.Recent(0)
	require.Len(t, entries, 1)
	require.Equal(t, "portinuse", entries[0].Analyzer)
	require.Equal(t, "app.log", entries[0].Source)
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	j := history.New(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, j.Load())
	require.Empty(t, j.Recent(0))
}

func TestRecentLimit(t *testing.T) {
	j := history.New(filepath.Join(t.TempDir(), "history.json"))
	for i := 0; i < 5; i++ {
		j.Append(&types.Diagnosis{Description: "d", Analyzer: "a"}, "")
	}
	require.Len(t, j.Recent(3), 3)
	require.Len(t, j.Recent(0), 5)
}

func TestSaveRejectsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "real.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0o600))
	link := filepath.Join(dir, "link.json")
	require.NoError(t, os.Symlink(target, link))

	j := history.New(link)
	require.Error(t, j.Save())
	require.Error(t, history.New(link).Load())
}

func TestSaveFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file modes")
	}
	path := filepath.Join(t.TempDir(), "nested", "history.json")
	j := history.New(path)
	j.Append(&types.Diagnosis{Description: "d"}, "")
	require.NoError(t, j.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
