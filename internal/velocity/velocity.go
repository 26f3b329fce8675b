package velocity

import (
	"time"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/entity"
	"horse.fit/trendscope/internal/globaltime"
	"horse.fit/trendscope/internal/textnorm"
)

const (
	DefaultNoiseFloor    = 3
	DefaultCategoryLimit = 12
	DefaultTermLimit     = 15
	DefaultEntityLimit   = 20
	// TextCap bounds the title and summary text tokenized per row.
	TextCap = 2500
)

// Options tunes the velocity passes. Zero fields use the defaults; a zero Now
// means the current UTC wall clock.
type Options struct {
	Now            time.Time
	Window         time.Duration
	NoiseFloor     int
	CategoryLimit  int
	TermLimit      int
	EntityLimit    int
	ExtractMissing bool
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = globaltime.UTC()
	}
	if o.Window <= 0 {
		o.Window = DefaultWindowLength
	}
	if o.NoiseFloor <= 0 {
		o.NoiseFloor = DefaultNoiseFloor
	}
	if o.CategoryLimit <= 0 {
		o.CategoryLimit = DefaultCategoryLimit
	}
	if o.TermLimit <= 0 {
		o.TermLimit = DefaultTermLimit
	}
	if o.EntityLimit <= 0 {
		o.EntityLimit = DefaultEntityLimit
	}
	return o
}

func (o Options) window() Window {
	return NewWindow(o.Now, o.Window)
}

// Report is the category and rising-term half of a velocity run.
type Report struct {
	CategoryVelocity []Record `json:"category_velocity"`
	RisingTerms      []Record `json:"rising_terms"`
}

// Compute runs CategoryVelocity and RisingTerms over one bucketing pass.
func Compute(rows []article.Row, opts Options) Report {
	opts = opts.withDefaults()

	categories := NewCounter()
	terms := NewCounter()
	opts.window().Assign(rows, func(row *article.Row, bucket Bucket) {
		categories.Add(row.CategoryOrDefault(), bucket)
		countTerms(terms, row, bucket)
	})

	return Report{
		CategoryVelocity: limit(categories.Records(), opts.CategoryLimit),
		RisingTerms:      limit(rising(terms.Records(), opts.NoiseFloor), opts.TermLimit),
	}
}

// CategoryVelocity compares per-category article counts.
func CategoryVelocity(rows []article.Row, opts Options) []Record {
	opts = opts.withDefaults()

	counter := NewCounter()
	opts.window().Assign(rows, func(row *article.Row, bucket Bucket) {
		counter.Add(row.CategoryOrDefault(), bucket)
	})
	return limit(counter.Records(), opts.CategoryLimit)
}

// RisingTerms returns terms seen at least NoiseFloor times this week that grew
// strictly against last week.
func RisingTerms(rows []article.Row, opts Options) []Record {
	opts = opts.withDefaults()

	counter := NewCounter()
	opts.window().Assign(rows, func(row *article.Row, bucket Bucket) {
		countTerms(counter, row, bucket)
	})
	return limit(rising(counter.Records(), opts.NoiseFloor), opts.TermLimit)
}

// EntityVelocity compares how many rows mention each entity. A row counts an
// entity once however often it is mentioned.
func EntityVelocity(rows []article.Row, opts Options) []Record {
	opts = opts.withDefaults()

	counter := NewCounter()
	opts.window().Assign(rows, func(row *article.Row, bucket Bucket) {
		for _, name := range RowEntities(*row, opts.ExtractMissing) {
			counter.Add(name, bucket)
		}
	})
	return limit(counter.Records(), opts.EntityLimit)
}

// RowEntities returns the distinct entity names of a row in first-seen order. A nil
// Companies list is treated as not yet extracted when extractMissing is set.
func RowEntities(row article.Row, extractMissing bool) []string {
	names := row.Companies
	if names == nil && extractMissing {
		names = entity.Extract(row.Title, row.Summary, entity.DefaultMaxResults)
	}
	if len(names) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func countTerms(counter *Counter, row *article.Row, bucket Bucket) {
	text := textnorm.Truncate(row.TitleAndSummary(), TextCap)
	for token := range textnorm.Tokens(text, textnorm.Velocity) {
		counter.Add(token, bucket)
	}
}

func rising(records []Record, noiseFloor int) []Record {
	out := records[:0]
	for _, r := range records {
		if r.ThisWeek < noiseFloor || r.Delta <= 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}
