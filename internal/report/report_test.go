package report

import (
	"reflect"
	"testing"
	"time"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/velocity"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func fetched(ago time.Duration) string {
	return testNow.Add(-ago).Format(time.RFC3339)
}

func sampleRows() []article.Row {
	return []article.Row{
		{Title: "Tesla Cuts Prices in China", URL: "u1", Source: "Reuters", Category: "EV", Companies: []string{"Tesla"}, FetchedAt: fetched(time.Hour)},
		{Title: "Tesla cuts prices in China again", URL: "u2", Source: "Electrek", Category: "EV", Companies: []string{"Tesla"}, FetchedAt: fetched(2 * time.Hour)},
		{Title: "Rivian opens Georgia plant", URL: "u3", Source: "Verge", Category: "Manufacturing", Companies: []string{"Rivian"}, FetchedAt: fetched(26 * time.Hour)},
		{Title: "CATL unveils sodium cells", URL: "u4", Source: "Reuters", Category: "Battery", Companies: []string{"CATL", "CATL"}, FetchedAt: fetched(9 * 24 * time.Hour)},
		{Title: "Undated", URL: "u5", Source: "Blog", Companies: []string{}},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	rep := Build(sampleRows(), Options{Velocity: velocity.Options{Now: testNow}})

	if rep.RowCount != 5 || !rep.GeneratedAt.Equal(testNow) {
		t.Fatalf("unexpected header: %+v", rep)
	}
	if len(rep.HotStories) == 0 || rep.HotStories[0].Coverage != 2 {
		t.Fatalf("expected the Tesla story to lead: %+v", rep.HotStories)
	}
	if _, ok := rep.Trends["General"]; !ok {
		t.Fatalf("expected General trends for the uncategorized row: %v", rep.Trends)
	}
	if got := rep.Velocity.CategoryVelocity[0]; got.Subject != "EV" || got.ThisWeek != 2 {
		t.Fatalf("unexpected category velocity: %+v", rep.Velocity.CategoryVelocity)
	}
	wantCompanies := []velocity.Record{
		{Subject: "Tesla", ThisWeek: 2, LastWeek: 0, Delta: 2, PctChange: velocity.NewSpikePct},
		{Subject: "Rivian", ThisWeek: 1, LastWeek: 0, Delta: 1, PctChange: velocity.NewSpikePct},
		{Subject: "CATL", ThisWeek: 0, LastWeek: 1, Delta: -1, PctChange: -100},
	}
	if !reflect.DeepEqual(rep.CompanyVelocity, wantCompanies) {
		t.Fatalf("unexpected company velocity:\n got %+v\nwant %+v", rep.CompanyVelocity, wantCompanies)
	}
	wantTop := []EntityCount{{Name: "Tesla", Count: 2}, {Name: "Rivian", Count: 1}, {Name: "CATL", Count: 1}}
	if !reflect.DeepEqual(rep.TopCompanies, wantTop) {
		t.Fatalf("unexpected top companies: %+v", rep.TopCompanies)
	}
}

func TestDailyCounts(t *testing.T) {
	t.Parallel()

	got := DailyCounts(sampleRows(), testNow, 14)
	if len(got) != 14 {
		t.Fatalf("unexpected length: %d", len(got))
	}
	if got[0].Day != "2026-10-01" || got[13].Day != "2026-10-14" {
		t.Fatalf("unexpected range: %s..%s", got[0].Day, got[13].Day)
	}
	if got[13].Count != 2 || got[12].Count != 1 || got[4].Count != 1 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

func TestCategoryCountsAndLatest(t *testing.T) {
	t.Parallel()

	rows := sampleRows()
	counts := CategoryCounts(rows, 2)
	want := []CategoryCount{{Category: "EV", Count: 2}, {Category: "Manufacturing", Count: 1}}
	if !reflect.DeepEqual(counts, want) {
		t.Fatalf("unexpected category counts: %+v", counts)
	}

	latest := LatestByCategory(rows, 1)
	var names []string
	for _, g := range latest {
		names = append(names, g.Category)
		if len(g.Articles) != 1 {
			t.Fatalf("per category cap ignored for %s: %d", g.Category, len(g.Articles))
		}
	}
	if !reflect.DeepEqual(names, []string{"Battery", "EV", "General", "Manufacturing"}) {
		t.Fatalf("categories should be sorted: %v", names)
	}
	if latest[1].Articles[0].URL != "u1" {
		t.Fatalf("expected the newest EV row first: %+v", latest[1].Articles)
	}
}
