package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Compile converts a RawRule into a CompiledRule ready for execution.
func Compile(raw RawRule) (*CompiledRule, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("rule missing ID")
	}
	if len(raw.Patterns) == 0 {
		return nil, fmt.Errorf("rule %s: no patterns defined", raw.ID)
	}
	if raw.Diagnosis.Description == "" {
		return nil, fmt.Errorf("rule %s: no diagnosis description", raw.ID)
	}

	mode := MatchAny
	if strings.ToLower(raw.MatchMode) == "all" {
		mode = MatchAll
	}

	compiled := &CompiledRule{
		ID:        raw.ID,
		Name:      raw.Name,
		Priority:  raw.Priority,
		MatchMode: mode,
		Diagnosis: raw.Diagnosis,
		Examples:  raw.Examples,
	}

	for i, p := range raw.Patterns {
		cp, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("rule %s pattern %d: %w", raw.ID, i, err)
		}
		compiled.Patterns = append(compiled.Patterns, cp)
	}

	return compiled, nil
}

func compilePattern(p RawPattern) (CompiledPattern, error) {
	cp := CompiledPattern{Type: p.Type, Value: p.Value}
	switch p.Type {
	case PatternRegex:
		re, err := regexp.Compile(p.Value)
		if err != nil {
			return cp, fmt.Errorf("invalid regex: %w", err)
		}
		cp.Regex = re
	case PatternContains:
		cp.Value = strings.ToLower(p.Value)
	default:
		return cp, fmt.Errorf("unknown type %q", p.Type)
	}
	return cp, nil
}

// CompileAll compiles a slice of raw rules, returning compiled rules
// sorted by priority (stable) and any per-rule errors. A rule that
// fails to compile is dropped, not fatal.
func CompileAll(raws []RawRule) ([]*CompiledRule, []error) {
	var compiled []*CompiledRule
	var errs []error
	for _, raw := range raws {
		c, err := Compile(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		compiled = append(compiled, c)
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority < compiled[j].Priority
	})
	return compiled, errs
}

// FilterByIDs removes rules whose ID is in the disabled set.
func FilterByIDs(compiled []*CompiledRule, disabled map[string]bool) []*CompiledRule {
	if len(disabled) == 0 {
		return compiled
	}
	var kept []*CompiledRule
	for _, r := range compiled {
		if !disabled[r.ID] {
			kept = append(kept, r)
		}
	}
	return kept
}

// Match holds a successful rule evaluation against a text.
type Match struct {
	Rule        *CompiledRule
	Description string
	Action      string
}

// Evaluate runs the rule against text. On success it returns a Match
// with ${name} capture references in the diagnosis expanded from the
// first matching regex pattern.
func (r *CompiledRule) Evaluate(text string) *Match {
	lower := strings.ToLower(text)

	var firstRegex *regexp.Regexp
	var firstLoc []int
	matched := 0
	for _, p := range r.Patterns {
		ok := false
		switch p.Type {
		case PatternRegex:
			if loc := p.Regex.FindStringSubmatchIndex(text); loc != nil {
				ok = true
				if firstRegex == nil {
					firstRegex = p.Regex
					firstLoc = loc
				}
			}
		case PatternContains:
			ok = strings.Contains(lower, p.Value)
		}
		if ok {
			matched++
			if r.MatchMode == MatchAny {
				break
			}
		} else if r.MatchMode == MatchAll {
			return nil
		}
	}
	if matched == 0 {
		return nil
	}

	m := &Match{
		Rule:        r,
		Description: r.Diagnosis.Description,
		Action:      r.Diagnosis.Action,
	}
	if firstRegex != nil {
		m.Description = expand(firstRegex, firstLoc, text, m.Description)
		m.Action = expand(firstRegex, firstLoc, text, m.Action)
	}
	return m
}

func expand(re *regexp.Regexp, loc []int, text, template string) string {
	if !strings.Contains(template, "$") {
		return template
	}
	return string(re.ExpandString(nil, template, text, loc))
}
