package types_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garagon/yarara/internal/types"
)

func TestLogFailureErrorIsFirstNonEmptyLine(t *testing.T) {
	f := &types.LogFailure{Output: "\n  \nfatal: could not start\nmore context\n"}
	require.Equal(t, "fatal: could not start", f.Error())

	empty := &types.LogFailure{Output: "   \n"}
	require.Contains(t, empty.Error(), "empty output")
}

func TestTextPrefersCapturedOutput(t *testing.T) {
	f := &types.LogFailure{Output: "line one\nline two"}
	require.Equal(t, "line one\nline two", types.Text(f))

	wrapped := fmt.Errorf("startup: %w", f)
	require.Equal(t, "line one\nline two", types.Text(wrapped))

	require.Equal(t, "plain", types.Text(errors.New("plain")))
	require.Equal(t, "", types.Text(nil))
}

func TestDiagnosisJSONSerializesCause(t *testing.T) {
	d := types.Diagnosis{
		Description: "desc",
		Action:      "act",
		Analyzer:    "a",
		Cause:       errors.New("root cause"),
	}
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "desc", decoded["description"])
	require.Equal(t, "root cause", decoded["cause"])
}

func TestDiagnosisJSONOmitsNilCause(t *testing.T) {
	data, err := json.Marshal(types.Diagnosis{Description: "desc", Analyzer: "a"})
	require.NoError(t, err)
	require.NotContains(t, string(data), "cause")
}
