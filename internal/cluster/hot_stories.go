package cluster

import (
	"slices"
	"sort"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/textnorm"
)

const (
	DefaultSimilarityThreshold = 0.82
	DefaultMaxGroups           = 10
)

// Options tunes HotStories. Zero fields use the defaults.
type Options struct {
	SimilarityThreshold float64
	MaxGroups           int
}

func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxGroups:           DefaultMaxGroups,
	}
}

func (o Options) withDefaults() Options {
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if o.MaxGroups <= 0 {
		o.MaxGroups = DefaultMaxGroups
	}
	return o
}

// HotStory is one reported duplicate-story group.
type HotStory struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Category string   `json:"category"`
	Sources  []string `json:"sources"`
	Coverage int      `json:"coverage"`
}

type group struct {
	founderKey string
	members    []*article.Row
	sources    map[string]struct{}
}

func (g *group) add(row *article.Row) {
	g.members = append(g.members, row)
	g.sources[row.Source] = struct{}{}
}

func (g *group) coverage() int {
	return len(g.sources)
}

// HotStories groups rows whose normalized titles are near identical and ranks the
// groups by distinct source count. Each row joins the first group, in creation
// order, whose founder key meets the threshold; otherwise it founds a new group.
// Results depend on row order, so callers should pass a stable order.
func HotStories(rows []article.Row, opts Options) []HotStory {
	opts = opts.withDefaults()

	groups := make([]*group, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		key := textnorm.NormalizeTitle(row.Title)

		var target *group
		for _, g := range groups {
			if Similarity(key, g.founderKey) >= opts.SimilarityThreshold {
				target = g
				break
			}
		}
		if target == nil {
			target = &group{founderKey: key, sources: make(map[string]struct{}, 2)}
			groups = append(groups, target)
		}
		target.add(row)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].coverage() > groups[j].coverage()
	})

	if len(groups) > opts.MaxGroups {
		groups = groups[:opts.MaxGroups]
	}

	out := make([]HotStory, 0, len(groups))
	for _, g := range groups {
		sources := make([]string, 0, len(g.sources))
		for source := range g.sources {
			sources = append(sources, source)
		}
		slices.Sort(sources)

		rep := g.members[0]
		out = append(out, HotStory{
			Title:    rep.Title,
			URL:      rep.URL,
			Category: rep.CategoryOrDefault(),
			Sources:  sources,
			Coverage: len(sources),
		})
	}
	return out
}
