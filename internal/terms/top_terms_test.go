package terms

import (
	"reflect"
	"strings"
	"testing"

	"horse.fit/trendscope/internal/article"
)

func TestTopTermsByCategory(t *testing.T) {
	t.Parallel()

	rows := []article.Row{
		{Title: "Battery plant expands", Summary: "Solid-state battery cells", Category: "Battery"},
		{Title: "Battery recycling grows", Summary: "", Category: "Battery"},
		{Title: "Charging network grows", Summary: "New chargers", Category: "EV"},
		{Title: "Untitled", Summary: "plant news"},
	}

	got := TopTermsByCategory(rows, 3)
	want := map[string][]TermCount{
		"Battery": {{Term: "battery", Count: 3}, {Term: "plant", Count: 1}, {Term: "expands", Count: 1}},
		"EV":      {{Term: "charging", Count: 1}, {Term: "network", Count: 1}, {Term: "grows", Count: 1}},
		"General": {{Term: "untitled", Count: 1}, {Term: "plant", Count: 1}, {Term: "news", Count: 1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected terms:\n got %+v\nwant %+v", got, want)
	}
}

func TestTopTermsTiesKeepFirstSeenOrder(t *testing.T) {
	t.Parallel()

	rows := []article.Row{
		{Title: "zeta alpha", Category: "X"},
		{Title: "alpha beta", Category: "X"},
		{Title: "zeta gamma", Category: "X"},
	}
	got := TopTermsByCategory(rows, 10)["X"]
	want := []TermCount{{"zeta", 2}, {"alpha", 2}, {"beta", 1}, {"gamma", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got %+v want %+v", got, want)
	}
}

func TestTopTermsCapsText(t *testing.T) {
	t.Parallel()

	title := strings.Repeat("x", TextCap-1) + " tail"
	got := TopTermsByCategory([]article.Row{{Title: title, Summary: "summary"}}, 10)["General"]
	for _, tc := range got {
		if tc.Term == "summary" || tc.Term == "tail" {
			t.Fatalf("text beyond the cap was tokenized: %+v", got)
		}
	}
}

func TestTopTermsEmpty(t *testing.T) {
	t.Parallel()

	if got := TopTermsByCategory(nil, 10); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
