package article

import "strings"

// DefaultCategory is reported for rows whose upstream category is missing.
const DefaultCategory = "General"

// Row is one stored article as seen by the analytics packages.
type Row struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Source    string   `json:"source"`
	Category  string   `json:"category"`
	Summary   string   `json:"summary"`
	Published string   `json:"published"`
	FetchedAt string   `json:"fetched_at"`
	Companies []string `json:"companies"`
}

func (r Row) CategoryOrDefault() string {
	if c := strings.TrimSpace(r.Category); c != "" {
		return c
	}
	return DefaultCategory
}

// TitleAndSummary joins the two text fields the frequency passes read.
func (r Row) TitleAndSummary() string {
	return r.Title + " " + r.Summary
}
