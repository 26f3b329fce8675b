package velocity

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"horse.fit/trendscope/internal/article"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func at(ago time.Duration) string {
	return testNow.Add(-ago).Format(time.RFC3339)
}

const day = 24 * time.Hour

func testOptions() Options {
	return Options{Now: testNow}
}

func categoryRows(category string, thisWeek, lastWeek int) []article.Row {
	rows := make([]article.Row, 0, thisWeek+lastWeek)
	for i := range thisWeek {
		rows = append(rows, article.Row{Title: fmt.Sprintf("%s this %d", category, i), Category: category, FetchedAt: at(time.Duration(i+1) * time.Hour)})
	}
	for i := range lastWeek {
		rows = append(rows, article.Row{Title: fmt.Sprintf("%s last %d", category, i), Category: category, FetchedAt: at(8*day + time.Duration(i)*time.Hour)})
	}
	return rows
}

func TestCategoryVelocityScenario(t *testing.T) {
	t.Parallel()

	got := CategoryVelocity(categoryRows("EV", 5, 2), testOptions())
	want := []Record{{Subject: "EV", ThisWeek: 5, LastWeek: 2, Delta: 3, PctChange: 150}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected velocity: got %+v want %+v", got, want)
	}
}

func TestEntityVelocityCountsOncePerRow(t *testing.T) {
	t.Parallel()

	rows := []article.Row{
		{Title: "Rivian expands", Companies: []string{"Rivian"}, FetchedAt: at(1 * day)},
		{Title: "Rivian and Rivian again", Companies: []string{"Rivian", "Rivian"}, FetchedAt: at(2 * day)},
		{Title: "Rivian R2", Companies: []string{"Rivian", "Tesla"}, FetchedAt: at(3 * day)},
		{Title: "Tesla last week", Companies: []string{"Tesla"}, FetchedAt: at(9 * day)},
	}
	got := EntityVelocity(rows, testOptions())
	want := []Record{
		{Subject: "Rivian", ThisWeek: 3, LastWeek: 0, Delta: 3, PctChange: NewSpikePct},
		{Subject: "Tesla", ThisWeek: 1, LastWeek: 1, Delta: 0, PctChange: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entity velocity: got %+v want %+v", got, want)
	}
}

func TestEntityVelocityExtractMissing(t *testing.T) {
	t.Parallel()

	rows := []article.Row{
		{Title: "Rivian recalls R1S", FetchedAt: at(day)},
		{Title: "Rivian opens service center", Companies: []string{}, FetchedAt: at(day)},
	}
	if got := EntityVelocity(rows, testOptions()); len(got) != 0 {
		t.Fatalf("rows without companies should not count by default: %+v", got)
	}

	opts := testOptions()
	opts.ExtractMissing = true
	got := EntityVelocity(rows, opts)
	if len(got) != 1 || got[0].Subject != "Rivian" || got[0].ThisWeek != 1 {
		t.Fatalf("expected only the nil-companies row to be extracted: %+v", got)
	}
}

func TestRisingTermsFloorAndGrowth(t *testing.T) {
	t.Parallel()

	var rows []article.Row
	add := func(title string, ago time.Duration, n int) {
		for range n {
			rows = append(rows, article.Row{Title: title, FetchedAt: at(ago)})
		}
	}
	add("gigacasting", day, 4)
	add("gigacasting", 8*day, 1)
	add("tariffs", day, 3)
	add("tariffs", 8*day, 3)
	add("robotaxi", day, 2)
	add("sodium", day, 3)

	got := RisingTerms(rows, testOptions())
	// equal delta: the bigger this week count wins
	want := []Record{
		{Subject: "gigacasting", ThisWeek: 4, LastWeek: 1, Delta: 3, PctChange: 300},
		{Subject: "sodium", ThisWeek: 3, LastWeek: 0, Delta: 3, PctChange: NewSpikePct},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected rising terms: got %+v want %+v", got, want)
	}
	for _, r := range got {
		if r.ThisWeek < DefaultNoiseFloor || r.Delta <= 0 {
			t.Fatalf("rising term below floor: %+v", r)
		}
	}
}

func TestRisingTermsUsesVelocityStopwords(t *testing.T) {
	t.Parallel()

	var rows []article.Row
	for range 4 {
		rows = append(rows, article.Row{Title: "New company report this week", Summary: "market line", FetchedAt: at(day)})
	}
	if got := RisingTerms(rows, testOptions()); len(got) != 0 {
		t.Fatalf("generic words should be filtered: %+v", got)
	}
}

func TestComputeMatchesIndividualPasses(t *testing.T) {
	t.Parallel()

	rows := append(categoryRows("EV", 6, 2), categoryRows("Battery", 1, 4)...)
	rows = append(rows, article.Row{Title: "solid-state solid-state solid-state", Category: "Battery", FetchedAt: at(2 * day)})

	got := Compute(rows, testOptions())
	if !reflect.DeepEqual(got.CategoryVelocity, CategoryVelocity(rows, testOptions())) {
		t.Fatalf("category velocity mismatch: %+v", got.CategoryVelocity)
	}
	if !reflect.DeepEqual(got.RisingTerms, RisingTerms(rows, testOptions())) {
		t.Fatalf("rising terms mismatch: %+v", got.RisingTerms)
	}
	if got.CategoryVelocity[0].Subject != "EV" || got.CategoryVelocity[1].Subject != "Battery" {
		t.Fatalf("unexpected order: %+v", got.CategoryVelocity)
	}
}

func TestVelocityInvariants(t *testing.T) {
	t.Parallel()

	var rows []article.Row
	categories := []string{"EV", "Battery", "Policy", "OEM", ""}
	for i := range 60 {
		rows = append(rows, article.Row{
			Title:     fmt.Sprintf("charging tariffs gigafactory %d", i%7),
			Category:  categories[i%len(categories)],
			Companies: []string{"Tesla", "BYD"}[:1+i%2],
			FetchedAt: at(time.Duration(i*7) * time.Hour),
		})
	}

	opts := testOptions()
	all := append(CategoryVelocity(rows, opts), EntityVelocity(rows, opts)...)
	all = append(all, RisingTerms(rows, opts)...)
	for _, r := range all {
		if r.ThisWeek == 0 && r.LastWeek == 0 {
			t.Fatalf("record with two zero counts: %+v", r)
		}
		if r.LastWeek == 0 && r.ThisWeek > 0 && r.PctChange != NewSpikePct {
			t.Fatalf("missing sentinel: %+v", r)
		}
		if r.Delta != r.ThisWeek-r.LastWeek {
			t.Fatalf("inconsistent delta: %+v", r)
		}
	}
}

func TestCategoryLimitAndTieOrder(t *testing.T) {
	t.Parallel()

	var rows []article.Row
	for i := range 15 {
		rows = append(rows, categoryRows(fmt.Sprintf("C%02d", i), 1, 0)...)
	}
	got := CategoryVelocity(rows, testOptions())
	if len(got) != DefaultCategoryLimit {
		t.Fatalf("unexpected length: %d", len(got))
	}
	for i, r := range got {
		if want := fmt.Sprintf("C%02d", i); r.Subject != want {
			t.Fatalf("ties should keep first-seen order: got %q want %q", r.Subject, want)
		}
	}

	small := CategoryVelocity(rows, Options{Now: testNow, CategoryLimit: 2})
	if len(small) != 2 {
		t.Fatalf("per call limit ignored: %d", len(small))
	}
}

func TestDefaultCategoryAndExcludedRows(t *testing.T) {
	t.Parallel()

	rows := []article.Row{
		{Title: "no category", FetchedAt: at(day)},
		{Title: "bad time", Category: "EV", FetchedAt: "yesterday", Published: "soon"},
		{Title: "future", Category: "EV", FetchedAt: testNow.Add(time.Hour).Format(time.RFC3339)},
		{Title: "ancient", Category: "EV", FetchedAt: at(30 * day)},
	}
	got := CategoryVelocity(rows, testOptions())
	want := []Record{{Subject: article.DefaultCategory, ThisWeek: 1, LastWeek: 0, Delta: 1, PctChange: NewSpikePct}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected velocity: got %+v want %+v", got, want)
	}
}

func TestWindowOverride(t *testing.T) {
	t.Parallel()

	rows := []article.Row{
		{Title: "a", Category: "EV", FetchedAt: at(2 * day)},
		{Title: "b", Category: "EV", FetchedAt: at(4 * day)},
	}
	got := CategoryVelocity(rows, Options{Now: testNow, Window: 3 * day})
	want := []Record{{Subject: "EV", ThisWeek: 1, LastWeek: 1, Delta: 0, PctChange: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected velocity: got %+v want %+v", got, want)
	}
}

func TestPctChange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		this, last, want int
	}{
		{5, 2, 150},
		{3, 0, NewSpikePct},
		{0, 0, 0},
		{0, 4, -100},
		{9, 8, 12},
		{11, 8, 38},
		{3, 8, -62},
		{2, 3, -33},
	}
	for _, tc := range cases {
		if got := PctChange(tc.this, tc.last); got != tc.want {
			t.Fatalf("PctChange(%d, %d): got %d want %d", tc.this, tc.last, got, tc.want)
		}
	}
}
