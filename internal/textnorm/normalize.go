package textnorm

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
)

// MaxKeyLength is the rune length normalized title keys are cut to.
const MaxKeyLength = 180

// Tokens start with a letter, so purely numeric runs never match.
var tokenPattern = regexp.MustCompile(`[a-z][a-z0-9\-]{2,}`)

func isStrippedPunct(r rune) bool {
	switch r {
	case '’', '\'', '"', '“', '”', ':', ';', ',', '.', '!', '?', '(', ')', '[', ']':
		return true
	}
	return false
}

// NormalizeTitle builds the comparison key for a title. Keys are never displayed.
func NormalizeTitle(title string) string {
	lowered := strings.ToLower(title)
	if strings.TrimSpace(lowered) == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(lowered))
	lastSpace := false
	for _, r := range lowered {
		if isStrippedPunct(r) {
			continue
		}
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}

	key := strings.TrimSpace(b.String())
	return strings.TrimSpace(Truncate(key, MaxKeyLength))
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Tokens yields the lowercased word tokens of text in source order, skipping stop words.
func Tokens(text string, stop StopSet) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := strings.ToLower(text)
		for rest != "" {
			loc := tokenPattern.FindStringIndex(rest)
			if loc == nil {
				return
			}
			token := rest[loc[0]:loc[1]]
			rest = rest[loc[1]:]
			if stop.Contains(token) {
				continue
			}
			if !yield(token) {
				return
			}
		}
	}
}

// Tokenize collects Tokens into a slice.
func Tokenize(text string, stop StopSet) []string {
	var out []string
	for token := range Tokens(text, stop) {
		out = append(out, token)
	}
	return out
}
