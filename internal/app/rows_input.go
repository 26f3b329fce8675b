package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/trendscope/internal/article"
	rowschema "horse.fit/trendscope/schema"
)

func readRowsFile(path string) ([]article.Row, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("--file is required")
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", trimmed, err)
	}
	rows, err := rowschema.ValidateRows(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", trimmed, err)
	}
	return rows, nil
}

// parseNowFlag accepts RFC3339 or YYYY-MM-DD. Empty means the current time.
func parseNowFlag(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return ts.UTC(), nil
	}
	if day, err := time.Parse(time.DateOnly, trimmed); err == nil {
		return day.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("--now must be RFC3339 or YYYY-MM-DD")
}
