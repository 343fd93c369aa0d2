package search

import (
	"regexp"
	"strings"
)

// IdentifierMatcher detects product identifiers (SKU / part numbers) inside a
// free-text query. The pattern is deployment configuration, not a universal
// constant: part-number conventions vary per store.
type IdentifierMatcher interface {
	Match(query string) (identifier string, ok bool)
}

// DefaultSKUPattern matches alphanumeric codes of the common
// "letters, optional separator, digits" shape, e.g. SKU-001234, AB_5500X.
const DefaultSKUPattern = `^[A-Za-z]{2,6}[-_]?[0-9]{3,}[A-Za-z0-9-]*$`

type RegexMatcher struct {
	re *regexp.Regexp
}

var _ IdentifierMatcher = &RegexMatcher{}

func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	if pattern == "" {
		pattern = DefaultSKUPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexMatcher{re: re}, nil
}

// Match scans whitespace-separated tokens and returns the first one that
// looks like an identifier. Trailing punctuation is stripped so queries like
// "price of SKU-001234?" still match.
func (m *RegexMatcher) Match(query string) (string, bool) {
	for _, token := range strings.Fields(query) {
		token = strings.Trim(token, ".,!?:;\"'()")
		if token == "" {
			continue
		}
		if m.re.MatchString(token) {
			return token, true
		}
	}
	return "", false
}
