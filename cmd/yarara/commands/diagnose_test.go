package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garagon/yarara/internal/report"
)

// resetDiagnoseFlags restores the package flag vars and the cobra
// Changed markers that earlier Execute calls may have left behind.
func resetDiagnoseFlags() {
	flagFormat = "console"
	flagNoColor = false
	flagPlugins = ""
	flagRules = ""
	flagDisableRules = nil
	flagVerbose = false
	flagSave = false
	flagHistoryPath = ""
	for _, name := range []string{"format", "no-color", "plugins", "rules", "disable-rule"} {
		if f := rootCmd.PersistentFlags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
}

func writeFailureFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "startup.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDiagnoseJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	resetDiagnoseFlags()

	path := writeFailureFile(t, "listen tcp 127.0.0.1:8080: bind: address already in use\n")

	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"diagnose", path, "--format", "json"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	var event report.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	require.NotEmpty(t, event.ID)
	require.NotEmpty(t, event.Timestamp)
	require.Equal(t, "logmatch", event.Diagnosis.Analyzer)
	require.Contains(t, event.Diagnosis.Description, "127.0.0.1:8080")
}

func TestDiagnoseConsole(t *testing.T) {
	buf := new(bytes.Buffer)
	resetDiagnoseFlags()

	path := writeFailureFile(t, "Error: required environment variable DATABASE_URL is not set\n")

	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"diagnose", path, "--no-color"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "APPLICATION FAILED TO START")
	require.Contains(t, out, "Description:")
	require.Contains(t, out, "DATABASE_URL")
}

func TestDiagnoseStdin(t *testing.T) {
	buf := new(bytes.Buffer)
	resetDiagnoseFlags()

	rootCmd.SetIn(strings.NewReader("panic: runtime error: invalid memory address or nil pointer dereference\n"))
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"diagnose", "-", "--format", "json"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetIn(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	var event report.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	require.Equal(t, "logmatch", event.Diagnosis.Analyzer)
}

func TestDiagnoseUnhandled(t *testing.T) {
	buf := new(bytes.Buffer)
	resetDiagnoseFlags()

	exitCode := -1
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = os.Exit }()

	path := writeFailureFile(t, "everything is fine, nothing to see here\n")

	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"diagnose", path})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	require.Equal(t, 1, exitCode)
	require.Contains(t, buf.String(), "No analyzer recognized this failure.")
}

func TestDiagnoseInvalidFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	resetDiagnoseFlags()

	path := writeFailureFile(t, "listen tcp :80: bind: address already in use\n")

	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"diagnose", path, "--format", "yaml"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --format")
}

func TestDiagnoseConfigFile(t *testing.T) {
	buf := new(bytes.Buffer)
	resetDiagnoseFlags()

	dir := t.TempDir()
	path := filepath.Join(dir, "startup.log")
	require.NoError(t, os.WriteFile(path, []byte("dial tcp 10.0.0.5:5432: connect: connection refused\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".yarara.yml"), []byte("format: json\n"), 0o644))

	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"diagnose", path})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	var event report.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	require.Contains(t, event.Diagnosis.Description, "10.0.0.5:5432")
}

func TestDiagnoseSaveHistory(t *testing.T) {
	buf := new(bytes.Buffer)
	resetDiagnoseFlags()

	historyPath := filepath.Join(t.TempDir(), "history.json")
	path := writeFailureFile(t, "listen tcp 127.0.0.1:9090: bind: address already in use\n")

	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"diagnose", path, "--format", "json", "--save", "--history-path", historyPath})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	require.FileExists(t, historyPath)

	buf.Reset()
	resetDiagnoseFlags()
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history", "--history-path", historyPath})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	err = rootCmd.Execute()
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "ANALYZER")
	require.Contains(t, out, "logmatch")
	require.Contains(t, out, "startup.log")
}

func TestDiagnoseDisabledRule(t *testing.T) {
	buf := new(bytes.Buffer)
	resetDiagnoseFlags()

	exitCode := -1
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = os.Exit }()

	path := writeFailureFile(t, "listen tcp 127.0.0.1:8080: bind: address already in use\n")

	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"diagnose", path, "--disable-rule", "NET-PORT-001"})
	defer rootCmd.SetArgs(nil)
	defer rootCmd.SetOut(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)
	require.Equal(t, 1, exitCode)
	require.Contains(t, buf.String(), "No analyzer recognized this failure.")
}
