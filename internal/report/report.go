package report

import (
	"sort"
	"time"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/cluster"
	"horse.fit/trendscope/internal/globaltime"
	"horse.fit/trendscope/internal/terms"
	"horse.fit/trendscope/internal/velocity"
)

const (
	DefaultTopCompanies      = 20
	DefaultDailyDays         = 14
	DefaultCategoryCounts    = 10
	DefaultLatestPerCategory = 12
)

// Options carries the per-call overrides of every analysis in a report.
type Options struct {
	Cluster           cluster.Options
	TopN              int
	Velocity          velocity.Options
	TopCompanies      int
	DailyDays         int
	CategoryCounts    int
	LatestPerCategory int
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = terms.DefaultTopN
	}
	if o.Velocity.Now.IsZero() {
		o.Velocity.Now = globaltime.UTC()
	}
	if o.TopCompanies <= 0 {
		o.TopCompanies = DefaultTopCompanies
	}
	if o.DailyDays <= 0 {
		o.DailyDays = DefaultDailyDays
	}
	if o.CategoryCounts <= 0 {
		o.CategoryCounts = DefaultCategoryCounts
	}
	if o.LatestPerCategory <= 0 {
		o.LatestPerCategory = DefaultLatestPerCategory
	}
	return o
}

type EntityCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type CategoryGroup struct {
	Category string        `json:"category"`
	Articles []article.Row `json:"articles"`
}

// Report is everything the dashboard and digest render for one row window.
type Report struct {
	GeneratedAt      time.Time                    `json:"generated_at"`
	RowCount         int                          `json:"row_count"`
	HotStories       []cluster.HotStory           `json:"hot_stories"`
	Trends           map[string][]terms.TermCount `json:"trends"`
	Velocity         velocity.Report              `json:"velocity"`
	CompanyVelocity  []velocity.Record            `json:"company_velocity"`
	TopCompanies     []EntityCount                `json:"top_companies"`
	DailyCounts      []DayCount                   `json:"daily_counts"`
	CategoryCounts   []CategoryCount              `json:"category_counts"`
	LatestByCategory []CategoryGroup              `json:"latest_by_category"`
}

// Build runs each analysis independently over the same rows. Rows are expected
// newest first.
func Build(rows []article.Row, opts Options) Report {
	opts = opts.withDefaults()
	now := velocity.NewWindow(opts.Velocity.Now, opts.Velocity.Window).Now()

	return Report{
		GeneratedAt:      now,
		RowCount:         len(rows),
		HotStories:       cluster.HotStories(rows, opts.Cluster),
		Trends:           terms.TopTermsByCategory(rows, opts.TopN),
		Velocity:         velocity.Compute(rows, opts.Velocity),
		CompanyVelocity:  velocity.EntityVelocity(rows, opts.Velocity),
		TopCompanies:     TopEntities(rows, opts.TopCompanies, opts.Velocity.ExtractMissing),
		DailyCounts:      DailyCounts(rows, now, opts.DailyDays),
		CategoryCounts:   CategoryCounts(rows, opts.CategoryCounts),
		LatestByCategory: LatestByCategory(rows, opts.LatestPerCategory),
	}
}

// TopEntities counts rows mentioning each entity, ties in first-seen order.
func TopEntities(rows []article.Row, n int, extractMissing bool) []EntityCount {
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		for _, name := range velocity.RowEntities(row, extractMissing) {
			if _, ok := counts[name]; !ok {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	out := make([]EntityCount, 0, len(order))
	for _, name := range order {
		out = append(out, EntityCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// DailyCounts buckets rows by fetched_at day for the days ending at now, oldest first.
func DailyCounts(rows []article.Row, now time.Time, days int) []DayCount {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]DayCount, days)
	index := make(map[string]int, days)
	for i := range days {
		day := today.AddDate(0, 0, i-days+1).Format(time.DateOnly)
		out[i] = DayCount{Day: day}
		index[day] = i
	}

	for _, row := range rows {
		ts, ok := velocity.ParseFetchedAt(row.FetchedAt)
		if !ok {
			continue
		}
		if i, ok := index[ts.Format(time.DateOnly)]; ok {
			out[i].Count++
		}
	}
	return out
}

// CategoryCounts returns the n largest categories, ties in first-seen order.
func CategoryCounts(rows []article.Row, n int) []CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		category := row.CategoryOrDefault()
		if _, ok := counts[category]; !ok {
			order = append(order, category)
		}
		counts[category]++
	}

	out := make([]CategoryCount, 0, len(order))
	for _, category := range order {
		out = append(out, CategoryCount{Category: category, Count: counts[category]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// LatestByCategory keeps the first perCategory rows of each category, categories sorted by name.
func LatestByCategory(rows []article.Row, perCategory int) []CategoryGroup {
	grouped := make(map[string][]article.Row)
	for _, row := range rows {
		category := row.CategoryOrDefault()
		if len(grouped[category]) < perCategory {
			grouped[category] = append(grouped[category], row)
		}
	}

	out := make([]CategoryGroup, 0, len(grouped))
	for category, members := range grouped {
		out = append(out, CategoryGroup{Category: category, Articles: members})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
