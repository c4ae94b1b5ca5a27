package core

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobPattern is a comma-separated list of doublestar patterns. Patterns
// prefixed with "!" exclude what they match.
type GlobPattern struct {
	positive []string
	negative []string
}

// ParseGlobPattern accepts patterns with or without a leading separator; they
// are matched against paths relative to the root.
func ParseGlobPattern(raw string) (*GlobPattern, error) {
	gp := &GlobPattern{}

	for _, pattern := range splitPatterns(raw) {
		pattern = strings.TrimSpace(pattern)
		negate := strings.HasPrefix(pattern, "!")
		pattern = strings.TrimPrefix(strings.TrimPrefix(pattern, "!"), Separator)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, invalid(pattern, "malformed glob pattern")
		}
		if negate {
			gp.negative = append(gp.negative, pattern)
		} else {
			gp.positive = append(gp.positive, pattern)
		}
	}

	if len(gp.positive) == 0 && len(gp.negative) == 0 {
		return nil, invalid(raw, "pattern must not be empty")
	}
	return gp, nil
}

// splitPatterns splits raw on commas that are outside brace groups. A
// backslash escapes the character after it.
func splitPatterns(raw string) []string {
	var patterns []string
	depth, start := 0, 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				patterns = append(patterns, raw[start:i])
				start = i + 1
			}
		}
	}
	return append(patterns, raw[start:])
}

// Match reports whether the absolute path p is selected. With only negative
// patterns every path not excluded is selected.
func (gp *GlobPattern) Match(p string) bool {
	rel := strings.TrimPrefix(p, Separator)

	selected := len(gp.positive) == 0
	for _, pattern := range gp.positive {
		if doublestar.MatchUnvalidated(pattern, rel) {
			selected = true
			break
		}
	}
	if !selected {
		return false
	}

	for _, pattern := range gp.negative {
		if doublestar.MatchUnvalidated(pattern, rel) {
			return false
		}
	}
	return true
}

// Glob returns every element below the root whose path matches pattern, in
// depth-first order.
func (ft *Filetree) Glob(pattern string) ([]Element, error) {
	gp, err := ParseGlobPattern(pattern)
	if err != nil {
		return nil, err
	}

	var matches []Element
	for _, e := range ft.FlattenTree() {
		if e == Element(ft.root) {
			continue
		}
		if gp.Match(e.Path()) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}
