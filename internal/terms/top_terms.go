package terms

import (
	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/textnorm"
)

const (
	DefaultTopN = 10
	// TextCap bounds the title and summary text tokenized per row.
	TextCap = 3000
)

type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// TopTermsByCategory returns the topN most frequent title and summary terms per
// category. Non-positive topN uses DefaultTopN.
func TopTermsByCategory(rows []article.Row, topN int) map[string][]TermCount {
	if topN <= 0 {
		topN = DefaultTopN
	}

	counters := make(map[string]*orderedCounter)
	for _, row := range rows {
		category := row.CategoryOrDefault()
		counter, ok := counters[category]
		if !ok {
			counter = newOrderedCounter()
			counters[category] = counter
		}
		for token := range textnorm.Tokens(textnorm.Truncate(row.TitleAndSummary(), TextCap), textnorm.General) {
			counter.add(token)
		}
	}

	out := make(map[string][]TermCount, len(counters))
	for category, counter := range counters {
		out[category] = counter.top(topN)
	}
	return out
}
