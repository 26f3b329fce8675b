package category

import (
	"regexp"
	"strings"

	"horse.fit/trendscope/internal/article"
)

// Keywords lists the terms that vote for a category label.
type Keywords struct {
	Label    string
	Keywords []string
}

// DefaultKeywords is scored in slice order; the first label with the best score wins.
var DefaultKeywords = []Keywords{
	{Label: "EV", Keywords: []string{"ev", "electric", "electrification", "charging", "charger", "range", "megawatt", "mcs"}},
	{Label: "Battery", Keywords: []string{"battery", "cells", "cell", "lithium", "lfp", "nmc", "solid-state", "anode", "cathode", "gigafactory"}},
	{Label: "Autonomy", Keywords: []string{"autonomous", "self-driving", "adas", "lidar", "camera", "radar", "robotaxi", "fisd", "level 2", "level 3", "level 4"}},
	{Label: "Software", Keywords: []string{"software-defined", "sdv", "ota", "over-the-air", "infotainment", "middleware", "cybersecurity", "linux"}},
	{Label: "OEM", Keywords: []string{"oem", "volkswagen", "vw", "toyota", "gm", "ford", "stellantis", "bmw", "mercedes", "volvo", "tesla", "byd", "geely"}},
	{Label: "SupplyChain", Keywords: []string{"supplier", "tier 1", "tier1", "semiconductor", "chip", "logistics", "shortage", "inventory", "raw materials"}},
	{Label: "Policy", Keywords: []string{"regulation", "eu", "ban", "tariff", "subsidy", "incentive", "compliance", "emissions", "carbon", "epa"}},
	{Label: "Startups", Keywords: []string{"startup", "funding", "series a", "series b", "venture", "seed", "acquisition"}},
	{Label: "Manufacturing", Keywords: []string{"plant", "factory", "production", "line", "capacity", "shutdown", "automation", "robotics"}},
}

type compiledCategory struct {
	label    string
	patterns []*regexp.Regexp
}

// Classifier assigns one label to an article from keyword hits.
type Classifier struct {
	categories []compiledCategory
}

func NewClassifier(table []Keywords) *Classifier {
	categories := make([]compiledCategory, 0, len(table))
	for _, entry := range table {
		compiled := compiledCategory{label: entry.Label}
		for _, kw := range entry.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			compiled.patterns = append(compiled.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		categories = append(categories, compiled)
	}
	return &Classifier{categories: categories}
}

// Score returns the number of distinct keywords of each label found in the text.
func (c *Classifier) Score(title, text string) map[string]int {
	haystack := strings.ToLower(title + "\n" + text)
	scores := make(map[string]int)
	for _, cat := range c.categories {
		for _, pattern := range cat.patterns {
			if pattern.MatchString(haystack) {
				scores[cat.label]++
			}
		}
	}
	return scores
}

// Pick returns the best scoring label, then fallback[0], then article.DefaultCategory.
func (c *Classifier) Pick(title, text string, fallback []string) string {
	scores := c.Score(title, text)

	best, bestScore := "", 0
	for _, cat := range c.categories {
		if s := scores[cat.label]; s > bestScore {
			best, bestScore = cat.label, s
		}
	}
	if best != "" {
		return best
	}

	for _, label := range fallback {
		if label = strings.TrimSpace(label); label != "" {
			return label
		}
	}
	return article.DefaultCategory
}

var defaultClassifier = NewClassifier(DefaultKeywords)

// Pick uses the classifier built from DefaultKeywords.
func Pick(title, text string, fallback []string) string {
	return defaultClassifier.Pick(title, text, fallback)
}
