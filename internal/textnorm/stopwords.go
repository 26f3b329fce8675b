package textnorm

import "strings"

// StopSet is a read-only set of tokens dropped by Tokens.
type StopSet struct {
	words map[string]struct{}
}

func newStopSet(groups ...string) StopSet {
	words := make(map[string]struct{})
	for _, group := range groups {
		for _, w := range strings.Fields(group) {
			words[w] = struct{}{}
		}
	}
	return StopSet{words: words}
}

func (s StopSet) Contains(token string) bool {
	_, ok := s.words[token]
	return ok
}

func (s StopSet) Len() int {
	return len(s.words)
}

const (
	generalWords = `a an and are as at be by for from has have he her his i in is it its of
on or our she that the their them they this to was were will with you your`

	velocityExtraWords = `new over like line pro said says report reports year years
week weeks day days company companies market markets`

	velocityBannedWords = `delta line pro new over like`
)

var (
	// General is used for per-category term ranking.
	General = newStopSet(generalWords)
	// Velocity adds temporal and generic nouns for week-over-week term ranking.
	Velocity = newStopSet(generalWords, velocityExtraWords, velocityBannedWords)
)
