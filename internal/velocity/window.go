package velocity

import (
	"time"

	"horse.fit/trendscope/internal/article"
)

// DefaultWindowLength is the width of each bucket.
const DefaultWindowLength = 7 * 24 * time.Hour

type Bucket int

const (
	Outside Bucket = iota
	ThisWeek
	LastWeek
)

func (b Bucket) String() string {
	switch b {
	case ThisWeek:
		return "this_week"
	case LastWeek:
		return "last_week"
	default:
		return "outside"
	}
}

// Window holds the two adjacent buckets [now-L, now) and [now-2L, now-L).
type Window struct {
	now    time.Time
	length time.Duration
}

// NewWindow anchors the buckets at the wall clock reading of now.
func NewWindow(now time.Time, length time.Duration) Window {
	if length <= 0 {
		length = DefaultWindowLength
	}
	return Window{now: wallClock(now), length: length}
}

func (w Window) Now() time.Time {
	return w.now
}

func (w Window) ThisWeekStart() time.Time {
	return w.now.Add(-w.length)
}

func (w Window) LastWeekStart() time.Time {
	return w.now.Add(-2 * w.length)
}

// Bucket places ts. Times at or after now and before the last week start are Outside.
func (w Window) Bucket(ts time.Time) Bucket {
	switch {
	case !ts.Before(w.now):
		return Outside
	case !ts.Before(w.ThisWeekStart()):
		return ThisWeek
	case !ts.Before(w.LastWeekStart()):
		return LastWeek
	default:
		return Outside
	}
}

// Assign calls fn for every row whose resolved timestamp lands in one of the buckets.
func (w Window) Assign(rows []article.Row, fn func(row *article.Row, bucket Bucket)) {
	for i := range rows {
		ts, ok := ResolveTimestamp(rows[i])
		if !ok {
			continue
		}
		if bucket := w.Bucket(ts); bucket != Outside {
			fn(&rows[i], bucket)
		}
	}
}
