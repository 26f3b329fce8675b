package velocity

import (
	"math"
	"sort"
)

// NewSpikePct marks growth from zero. It is not a percentage.
const NewSpikePct = 999

// Record is the week-over-week change for one subject.
type Record struct {
	Subject   string `json:"subject"`
	ThisWeek  int    `json:"this_week"`
	LastWeek  int    `json:"last_week"`
	Delta     int    `json:"delta"`
	PctChange int    `json:"pct_change"`
}

// PctChange returns NewSpikePct for growth from zero, otherwise 100*delta/last
// rounded half to even. Both counts zero yields 0.
func PctChange(thisWeek, lastWeek int) int {
	switch {
	case lastWeek == 0 && thisWeek > 0:
		return NewSpikePct
	case lastWeek > 0:
		delta := thisWeek - lastWeek
		return int(math.RoundToEven(float64(delta) / float64(lastWeek) * 100))
	default:
		return 0
	}
}

// Counter tallies subjects into the two buckets, remembering first-seen order.
type Counter struct {
	order []string
	this  map[string]int
	last  map[string]int
}

func NewCounter() *Counter {
	return &Counter{
		this: make(map[string]int),
		last: make(map[string]int),
	}
}

func (c *Counter) Add(subject string, bucket Bucket) {
	if bucket == Outside {
		return
	}
	if _, seen := c.this[subject]; !seen {
		c.order = append(c.order, subject)
		c.this[subject] = 0
		c.last[subject] = 0
	}
	if bucket == ThisWeek {
		c.this[subject]++
	} else {
		c.last[subject]++
	}
}

// Records returns every subject with a non-zero count, sorted by delta then this
// week count, both descending. Ties keep first-seen order.
func (c *Counter) Records() []Record {
	out := make([]Record, 0, len(c.order))
	for _, subject := range c.order {
		tw, lw := c.this[subject], c.last[subject]
		if tw == 0 && lw == 0 {
			continue
		}
		out = append(out, Record{
			Subject:   subject,
			ThisWeek:  tw,
			LastWeek:  lw,
			Delta:     tw - lw,
			PctChange: PctChange(tw, lw),
		})
	}
	sortRecords(out)
	return out
}

func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Delta != records[j].Delta {
			return records[i].Delta > records[j].Delta
		}
		return records[i].ThisWeek > records[j].ThisWeek
	})
}

func limit(records []Record, n int) []Record {
	if n >= 0 && len(records) > n {
		return records[:n]
	}
	return records
}
