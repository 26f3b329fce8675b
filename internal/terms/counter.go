package terms

import "sort"

// orderedCounter counts keys and remembers the order they were first seen.
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns up to n keys by count descending, ties in first-seen order.
func (c *orderedCounter) top(n int) []TermCount {
	out := make([]TermCount, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, TermCount{Term: key, Count: c.counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
