package stream

import (
	"encoding/json"
	"fmt"
	"strings"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/category"
	"horse.fit/trendscope/internal/entity"
)

var errNoURL = fmt.Errorf("row has no url")

// DecodeRow parses a message value into a row ready for storage. Missing
// fetched_at, category and companies are filled in.
func DecodeRow(value []byte, fetchedAt string) (article.Row, error) {
	var row article.Row
	if err := json.Unmarshal(value, &row); err != nil {
		return article.Row{}, fmt.Errorf("decode row: %w", err)
	}
	row.URL = strings.TrimSpace(row.URL)
	if row.URL == "" {
		return article.Row{}, errNoURL
	}
	return Normalize(row, fetchedAt), nil
}

func Normalize(row article.Row, fetchedAt string) article.Row {
	row.Title = strings.TrimSpace(row.Title)
	if row.Title == "" {
		row.Title = row.URL
	}
	if strings.TrimSpace(row.FetchedAt) == "" {
		row.FetchedAt = fetchedAt
	}
	if strings.TrimSpace(row.Category) == "" {
		row.Category = category.Pick(row.Title, row.Summary, nil)
	}
	if row.Companies == nil {
		row.Companies = entity.Extract(row.Title, row.Summary, entity.DefaultMaxResults)
		if row.Companies == nil {
			row.Companies = []string{}
		}
	}
	return row
}
