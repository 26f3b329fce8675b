package entity

import (
	"regexp"
	"strings"
)

// DefaultFallbackNames caps the capitalization heuristic.
const DefaultFallbackNames = 3

var capitalizedRun = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9]*(?:\s+[A-Z][a-zA-Z0-9]*){0,2}\b`)

// FallbackFromTitle guesses company names from runs of one to three capitalized
// words. Outside startup and funding headlines only well known manufacturers are kept.
func FallbackFromTitle(title string, maxNames int) []string {
	if strings.TrimSpace(title) == "" {
		return []string{}
	}
	if maxNames <= 0 {
		maxNames = DefaultFallbackNames
	}

	startupContext := hasStartupContext(title)

	out := make([]string, 0, maxNames)
	seen := make(map[string]struct{}, maxNames)
	for _, candidate := range capitalizedRun.FindAllString(title, -1) {
		candidate = strings.TrimSpace(candidate)
		if !keepCandidate(candidate, startupContext) {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
		if len(out) >= maxNames {
			break
		}
	}
	return out
}

func hasStartupContext(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range startupKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func keepCandidate(candidate string, startupContext bool) bool {
	if strings.HasPrefix(candidate, "The ") {
		return false
	}
	if strings.ContainsAny(candidate, "‘’“”") {
		return false
	}
	if _, banned := fallbackBlacklist[candidate]; banned {
		return false
	}
	if !strings.Contains(candidate, " ") {
		if _, generic := genericSingleWords[strings.ToLower(candidate)]; generic {
			return false
		}
	}
	if len([]rune(candidate)) < 3 {
		return false
	}
	if !startupContext {
		_, known := knownManufacturers[candidate]
		return known
	}
	return true
}
