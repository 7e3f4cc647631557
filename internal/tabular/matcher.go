package tabular

import (
	"regexp"
	"strings"
)

// ColumnMatcher locates a column in a header row. Matchers are tried in the
// order given to FindColumn; the first hit wins.
type ColumnMatcher interface {
	Match(header []string) (int, bool)
}

// Exact matches a case-insensitive exact header name, first of the listed
// candidates to appear.
type Exact struct {
	Names []string
}

func (m Exact) Match(header []string) (int, bool) {
	for _, name := range m.Names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i, true
			}
		}
	}
	return 0, false
}

// Regex matches the first header the pattern finds, case-insensitively when
// the pattern says so.
type Regex struct {
	Pattern *regexp.Regexp
}

func (m Regex) Match(header []string) (int, bool) {
	for i, h := range header {
		if m.Pattern.MatchString(h) {
			return i, true
		}
	}
	return 0, false
}

// Positional falls back to a fixed index when nothing better matched.
type Positional struct {
	Index int
}

func (m Positional) Match(header []string) (int, bool) {
	if m.Index >= 0 && m.Index < len(header) {
		return m.Index, true
	}
	return 0, false
}

// FindColumn runs the matcher chain against a header row.
func FindColumn(header []string, matchers ...ColumnMatcher) (int, bool) {
	for _, m := range matchers {
		if idx, ok := m.Match(header); ok {
			return idx, true
		}
	}
	return 0, false
}
