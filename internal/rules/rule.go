// Package rules loads and compiles the YAML failure-pattern rules that
// drive the logmatch analyzer. A rule pairs text patterns with the
// diagnosis to emit when captured startup output matches them.
package rules

import "regexp"

// MatchMode determines how multiple patterns are combined.
type MatchMode int

const (
	MatchAny MatchMode = iota // any pattern match triggers the rule
	MatchAll                  // all patterns must match
)

// PatternType represents the type of a pattern.
type PatternType string

const (
	PatternRegex    PatternType = "regex"
	PatternContains PatternType = "contains"
)

// RawPattern is a single pattern as defined in YAML.
type RawPattern struct {
	Type  PatternType `yaml:"type"`
	Value string      `yaml:"value"`
}

// RawDiagnosis is the diagnosis text a rule emits. Description and
// Action may reference named capture groups from the rule's regex
// patterns as ${name}.
type RawDiagnosis struct {
	Description string `yaml:"description"`
	Action      string `yaml:"action"`
}

// RawExamples contains sample outputs for rule self-testing.
type RawExamples struct {
	Matching    []string `yaml:"matching"`
	NonMatching []string `yaml:"non_matching"`
}

// RawRule is the YAML representation of a failure-pattern rule.
type RawRule struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Priority  int          `yaml:"priority"`
	MatchMode string       `yaml:"match_mode"`
	Patterns  []RawPattern `yaml:"patterns"`
	Diagnosis RawDiagnosis `yaml:"diagnosis"`
	Examples  RawExamples  `yaml:"examples"`
}

// CompiledPattern is a pattern ready for matching.
type CompiledPattern struct {
	Type  PatternType
	Regex *regexp.Regexp // set when Type == PatternRegex
	Value string         // set when Type == PatternContains (lowercased)
}

// CompiledRule is a rule compiled and ready for execution.
type CompiledRule struct {
	ID        string
	Name      string
	Priority  int
	MatchMode MatchMode
	Patterns  []CompiledPattern
	Diagnosis RawDiagnosis
	Examples  RawExamples
}
