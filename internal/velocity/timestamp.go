package velocity

import (
	"strings"
	"time"

	"horse.fit/trendscope/internal/article"
)

var fetchedAtLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// publishedLayouts are tried in order; the first successful parse wins.
var publishedLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ResolveTimestamp picks the time a row is bucketed by: fetched_at when it parses as
// ISO-8601, otherwise published. Offsets are dropped without conversion.
func ResolveTimestamp(row article.Row) (time.Time, bool) {
	if ts, ok := parseFirst(row.FetchedAt, fetchedAtLayouts); ok {
		return ts, true
	}
	return parseFirst(row.Published, publishedLayouts)
}

func parseFirst(raw string, layouts []string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return wallClock(ts), true
		}
	}
	return time.Time{}, false
}

// wallClock keeps the clock reading of t and discards its zone.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ParseFetchedAt parses an ingestion timestamp on its own, without the published fallback.
func ParseFetchedAt(raw string) (time.Time, bool) {
	return parseFirst(raw, fetchedAtLayouts)
}
