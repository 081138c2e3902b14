package stats

import (
	"regexp"
	"strings"
)

// Matcher is one strategy for recovering an embedded data object from raw
// HTML text. Matchers are applied in order; the first hit wins and later
// matchers are never consulted.
type Matcher struct {
	// Name identifies the pattern in logs and diagnostics.
	Name string

	pattern *regexp.Regexp
	group   int
}

// Match returns the captured object literal, or ok=false when the pattern
// does not occur in the text.
func (m Matcher) Match(html string) (fragment string, ok bool) {
	groups := m.pattern.FindStringSubmatch(html)
	if groups == nil || groups[m.group] == "" {
		return "", false
	}

	return groups[m.group], true
}

// DefaultMatchers returns the known embedding patterns in priority order:
// the two chartData assignment forms, the generic stats/data assignment,
// and a last-resort scan for any script-embedded object with an assets key.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{
			Name:    "window.chartData",
			pattern: regexp.MustCompile(`window\.chartData\s*=\s*(\{[\s\S]*?\});`),
			group:   1,
		},
		{
			Name:    "var chartData",
			pattern: regexp.MustCompile(`var\s+chartData\s*=\s*(\{[\s\S]*?\});`),
			group:   1,
		},
		{
			Name:    "var stats/data",
			pattern: regexp.MustCompile(`var\s+(stats|data|webjackData)\s*=\s*(\{[\s\S]*?\});`),
			group:   2,
		},
		{
			Name:    "script assets literal",
			pattern: regexp.MustCompile(`<script[^>]*>[\s\S]*?(\{[\s\S]*?"assets"[\s\S]*?\})[\s\S]*?</script>`),
			group:   1,
		},
	}
}

// firstMatch runs the cascade and reports which matcher produced the fragment.
func firstMatch(matchers []Matcher, html string) (fragment, matcherName string, ok bool) {
	for _, m := range matchers {
		captured, hit := m.Match(html)
		if hit {
			return captured, m.Name, true
		}
	}

	return "", "", false
}

// sanitizeFragment rewrites the non-strict JSON tokens the build tool is
// known to emit (undefined, NaN) into null so the fragment parses.
func sanitizeFragment(fragment string) string {
	cleaned := strings.ReplaceAll(fragment, "undefined", "null")

	return strings.ReplaceAll(cleaned, "NaN", "null")
}
