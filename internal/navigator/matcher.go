package navigator

import (
	"fmt"
	"regexp"
	"strings"
)

// NameMatcher matches an accessible name either literally or against a
// regular expression.
type NameMatcher struct {
	literal string
	pattern *regexp.Regexp
}

// ExactName returns a matcher requiring the accessible name to equal name
// (both sides trimmed).
func ExactName(name string) NameMatcher {
	return NameMatcher{literal: strings.TrimSpace(name)}
}

// NamePattern returns a matcher requiring the accessible name to match re.
func NamePattern(re *regexp.Regexp) NameMatcher {
	return NameMatcher{pattern: re}
}

// Match reports whether the accessible name satisfies the matcher.
func (m NameMatcher) Match(name string) bool {
	if m.pattern != nil {
		return m.pattern.MatchString(name)
	}
	return strings.TrimSpace(name) == m.literal
}

// Literal returns the literal name and true when the matcher is an exact
// match, so lookups can use the accessibility tree's own name matching.
func (m NameMatcher) Literal() (string, bool) {
	if m.pattern != nil {
		return "", false
	}
	return m.literal, true
}

// String renders the matcher for error messages.
func (m NameMatcher) String() string {
	if m.pattern != nil {
		return fmt.Sprintf("/%s/", m.pattern.String())
	}
	return fmt.Sprintf("%q", m.literal)
}
