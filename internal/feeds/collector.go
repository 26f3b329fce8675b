package feeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"horse.fit/trendscope/internal/reader"
)

const DefaultItemLimit = 10

// Item is one feed entry reduced to the fields ingest needs.
type Item struct {
	Title     string
	URL       string
	Source    string
	Published string
	Text      string
}

type Collector struct {
	parser *gofeed.Parser
	limit  int
}

func NewCollector(limit int) *Collector {
	if limit <= 0 {
		limit = DefaultItemLimit
	}
	return &Collector{
		parser: gofeed.NewParser(),
		limit:  limit,
	}
}

// Collect fetches src and returns its first entries that carry a link.
func (c *Collector) Collect(ctx context.Context, src Source) ([]Item, error) {
	feed, err := c.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}
	return itemsFromFeed(feed, src, c.limit), nil
}

func itemsFromFeed(feed *gofeed.Feed, src Source, limit int) []Item {
	if feed == nil {
		return nil
	}

	entries := feed.Items
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	sourceName := strings.TrimSpace(feed.Title)
	if sourceName == "" {
		sourceName = src.Name
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		link := strings.TrimSpace(entry.Link)
		if link == "" {
			continue
		}

		title := strings.TrimSpace(entry.Title)
		if title == "" {
			title = link
		}

		published := strings.TrimSpace(entry.Published)
		if published == "" {
			published = strings.TrimSpace(entry.Updated)
		}

		text := reader.StripHTML(entry.Content)
		if text == "" {
			text = reader.StripHTML(entry.Description)
		}

		items = append(items, Item{
			Title:     title,
			URL:       link,
			Source:    sourceName,
			Published: published,
			Text:      text,
		})
	}
	return items
}
