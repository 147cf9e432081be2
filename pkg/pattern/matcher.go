// Package pattern compiles glob pattern lists into matchers used to admit or
// reject files and directories during extraction.
package pattern

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/multierr"
)

// BadPatternError reports a pattern that is not valid glob syntax.
type BadPatternError struct {
	Pattern string // Offending pattern as supplied.
	Index   int    // Position of the pattern in its list (0-based).
}

func (e *BadPatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q at index %d", e.Pattern, e.Index)
}

// Matcher reports whether a path matches any of a set of glob patterns.
// The zero value and a Matcher compiled from an empty list match nothing.
type Matcher struct {
	patterns []string
}

// Compile validates every pattern and returns a Matcher over all of them.
// Every invalid pattern is reported; the returned error combines one
// *BadPatternError per offender. The empty pattern is valid and matches
// only the empty path.
func Compile(patterns []string) (*Matcher, error) {
	var errs error
	compiled := make([]string, 0, len(patterns))
	for i, p := range patterns {
		p = filepath.ToSlash(p)
		if !doublestar.ValidatePattern(p) {
			errs = multierr.Append(errs, &BadPatternError{Pattern: patterns[i], Index: i})
			continue
		}
		compiled = append(compiled, p)
	}
	if errs != nil {
		return nil, errs
	}
	return &Matcher{patterns: compiled}, nil
}

// MustCompile is like Compile but panics on invalid patterns.
func MustCompile(patterns ...string) *Matcher {
	m, err := Compile(patterns)
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.patterns)
}

// Patterns returns a copy of the compiled patterns.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

// Match reports whether path matches at least one pattern.
func (m *Matcher) Match(path string) bool {
	matched, _ := m.MatchWithPattern(path)
	return matched
}

// MatchWithPattern reports whether path matches and returns the first
// pattern that did.
//
// A pattern is tried against the slash-normalized path and against every
// trailing run of whole segments of it, so "*.py" matches "/repo/src/a.py"
// through "a.py" and "src/*.py" matches it through "src/a.py".
func (m *Matcher) MatchWithPattern(path string) (bool, string) {
	if m.Len() == 0 {
		return false, ""
	}
	candidates := suffixes(filepath.ToSlash(path))
	for _, p := range m.patterns {
		for _, c := range candidates {
			// Patterns were validated in Compile, so the error is always nil.
			if ok, _ := doublestar.Match(p, c); ok {
				return true, p
			}
		}
	}
	return false, ""
}

// suffixes returns path followed by each of its trailing segment runs,
// longest first.
func suffixes(path string) []string {
	path = strings.TrimSuffix(path, "/")
	out := []string{path}
	for i := 0; i < len(path); i++ {
		if path[i] == '/' && i+1 < len(path) {
			out = append(out, path[i+1:])
		}
	}
	return out
}
