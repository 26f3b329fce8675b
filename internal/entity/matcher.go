package entity

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultMaxResults caps how many canonical names Extract reports.
const DefaultMaxResults = 8

type compiledAlias struct {
	canonical string
	pattern   *regexp.Regexp
}

// Matcher reports canonical entity names found in free text. A Matcher is immutable
// after NewMatcher returns and may be shared between goroutines.
type Matcher struct {
	entries []compiledAlias
	exclude map[string]struct{}
}

// NewMatcher compiles one case-insensitive pattern per canonical entity.
func NewMatcher(aliases []Alias, exclusions []string) *Matcher {
	entries := make([]compiledAlias, 0, len(aliases))
	for _, alias := range aliases {
		pattern := compileAliasPattern(alias.Aliases)
		if pattern == nil {
			continue
		}
		entries = append(entries, compiledAlias{canonical: alias.Canonical, pattern: pattern})
	}
	return &Matcher{
		entries: entries,
		exclude: setOf(exclusions...),
	}
}

// compileAliasPattern orders aliases longest first and requires a non-alphanumeric
// character or a text edge on both sides. RE2 has no lookaround, so the boundary
// classes consume one character each, which is enough for a presence test.
func compileAliasPattern(aliases []string) *regexp.Regexp {
	cleaned := make([]string, 0, len(aliases))
	for _, a := range aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			cleaned = append(cleaned, a)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}

	slices.SortStableFunc(cleaned, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})

	quoted := make([]string, len(cleaned))
	for i, a := range cleaned {
		quoted[i] = regexp.QuoteMeta(a)
	}
	return regexp.MustCompile(`(?i)(?:^|[^a-z0-9])(?:` + strings.Join(quoted, "|") + `)(?:[^a-z0-9]|$)`)
}

// Extract returns canonical names mentioned in title or body, in table order.
// When no alias matches it falls back to FallbackFromTitle.
func (m *Matcher) Extract(title, body string, maxResults int) []string {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	haystack := title + "\n" + body
	found := make([]string, 0, 4)
	for _, entry := range m.entries {
		if !entry.pattern.MatchString(haystack) {
			continue
		}
		found = append(found, entry.canonical)
		if len(found) >= maxResults {
			break
		}
	}

	if len(found) == 0 {
		found = FallbackFromTitle(title, DefaultFallbackNames)
	}

	return m.withoutExcluded(found)
}

// Excluded reports whether name is on the exclusion list.
func (m *Matcher) Excluded(name string) bool {
	_, ok := m.exclude[name]
	return ok
}

func (m *Matcher) withoutExcluded(names []string) []string {
	out := names[:0]
	for _, name := range names {
		if m.Excluded(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

var defaultMatcher = NewMatcher(DefaultAliases, DefaultExclusions)

// Default returns the matcher built from DefaultAliases and DefaultExclusions.
func Default() *Matcher {
	return defaultMatcher
}

// Extract runs the default matcher.
func Extract(title, body string, maxResults int) []string {
	return defaultMatcher.Extract(title, body, maxResults)
}
