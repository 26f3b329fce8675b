package cluster

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity is the Ratcliff/Obershelp ratio 2*M/T of two keys compared rune by rune.
// Title keys stay under the matcher's 200 element autojunk threshold.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}
