package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garagon/yarara/internal/rules"
	"github.com/garagon/yarara/internal/rules/builtin"
)

func TestCompileRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  rules.RawRule
	}{
		{"missing id", rules.RawRule{Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "x"}}, Diagnosis: rules.RawDiagnosis{Description: "d"}}},
		{"no patterns", rules.RawRule{ID: "X-1", Diagnosis: rules.RawDiagnosis{Description: "d"}}},
		{"no description", rules.RawRule{ID: "X-1", Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "x"}}}},
		{"bad regex", rules.RawRule{ID: "X-1", Patterns: []rules.RawPattern{{Type: rules.PatternRegex, Value: "("}}, Diagnosis: rules.RawDiagnosis{Description: "d"}}},
		{"unknown pattern type", rules.RawRule{ID: "X-1", Patterns: []rules.RawPattern{{Type: "glob", Value: "x"}}, Diagnosis: rules.RawDiagnosis{Description: "d"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.Compile(tt.raw)
			require.Error(t, err)
		})
	}
}

func TestCompileAllSortsByPriorityAndCollectsErrors(t *testing.T) {
	raws := []rules.RawRule{
		{ID: "LATE", Priority: 50, Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "x"}}, Diagnosis: rules.RawDiagnosis{Description: "d"}},
		{ID: "BROKEN", Patterns: []rules.RawPattern{{Type: rules.PatternRegex, Value: "("}}, Diagnosis: rules.RawDiagnosis{Description: "d"}},
		{ID: "EARLY", Priority: 10, Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "y"}}, Diagnosis: rules.RawDiagnosis{Description: "d"}},
	}
	compiled, errs := rules.CompileAll(raws)
	require.Len(t, errs, 1)
	require.Len(t, compiled, 2)
	require.Equal(t, "EARLY", compiled[0].ID)
	require.Equal(t, "LATE", compiled[1].ID)
}

func TestEvaluateContainsIsCaseInsensitive(t *testing.T) {
	compiled, err := rules.Compile(rules.RawRule{
		ID:        "X-1",
		Patterns:  []rules.RawPattern{{Type: rules.PatternContains, Value: "Connection Refused"}},
		Diagnosis: rules.RawDiagnosis{Description: "refused"},
	})
	require.NoError(t, err)

	require.NotNil(t, compiled.Evaluate("dial tcp: CONNECTION REFUSED"))
	require.Nil(t, compiled.Evaluate("connection established"))
}

func TestEvaluateExpandsNamedCaptures(t *testing.T) {
	compiled, err := rules.Compile(rules.RawRule{
		ID:       "X-1",
		Patterns: []rules.RawPattern{{Type: rules.PatternRegex, Value: `listen tcp (?P<addr>\S+): bind: address already in use`}},
		Diagnosis: rules.RawDiagnosis{
			Description: "Cannot bind to ${addr}.",
			Action:      "Free ${addr} first.",
		},
	})
	require.NoError(t, err)

	m := compiled.Evaluate("listen tcp :8080: bind: address already in use")
	require.NotNil(t, m)
	require.Equal(t, "Cannot bind to :8080.", m.Description)
	require.Equal(t, "Free :8080 first.", m.Action)
}

func TestEvaluateMatchAllRequiresEveryPattern(t *testing.T) {
	compiled, err := rules.Compile(rules.RawRule{
		ID:        "X-1",
		MatchMode: "all",
		Patterns: []rules.RawPattern{
			{Type: rules.PatternContains, Value: "tls"},
			{Type: rules.PatternContains, Value: "expired"},
		},
		Diagnosis: rules.RawDiagnosis{Description: "expired cert"},
	})
	require.NoError(t, err)

	require.NotNil(t, compiled.Evaluate("tls: certificate expired"))
	require.Nil(t, compiled.Evaluate("tls handshake ok"))
}

func TestFilterByIDs(t *testing.T) {
	raws := []rules.RawRule{
		{ID: "A", Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "x"}}, Diagnosis: rules.RawDiagnosis{Description: "d"}},
		{ID: "B", Patterns: []rules.RawPattern{{Type: rules.PatternContains, Value: "y"}}, Diagnosis: rules.RawDiagnosis{Description: "d"}},
	}
	compiled, errs := rules.CompileAll(raws)
	require.Empty(t, errs)

	kept := rules.FilterByIDs(compiled, map[string]bool{"A": true})
	require.Len(t, kept, 1)
	require.Equal(t, "B", kept[0].ID)
}

func TestLoadFromDirMultiDoc(t *testing.T) {
	dir := t.TempDir()
	content := `id: CUSTOM-001
name: First
patterns:
  - type: contains
    value: "first"
diagnosis:
  description: "first rule"
---
id: CUSTOM-002
name: Second
patterns:
  - type: contains
    value: "second"
diagnosis:
  description: "second rule"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(content), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not yaml"), 0o644))

	raws, err := rules.LoadFromDir(dir)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	require.Equal(t, "CUSTOM-001", raws[0].ID)
	require.Equal(t, "CUSTOM-002", raws[1].ID)
}

// TestBuiltinRuleExamples self-tests every embedded rule against its
// own matching and non-matching examples.
func TestBuiltinRuleExamples(t *testing.T) {
	raws, err := rules.LoadFromFS(builtin.FS())
	require.NoError(t, err)
	require.NotEmpty(t, raws)

	compiled, errs := rules.CompileAll(raws)
	require.Empty(t, errs)

	for _, r := range compiled {
		t.Run(r.ID, func(t *testing.T) {
			require.NotEmpty(t, r.Examples.Matching, "rule has no matching examples")
			for _, ex := range r.Examples.Matching {
				require.NotNil(t, r.Evaluate(ex), "expected match: %q", ex)
			}
			for _, ex := range r.Examples.NonMatching {
				require.Nil(t, r.Evaluate(ex), "expected no match: %q", ex)
			}
		})
	}
}
