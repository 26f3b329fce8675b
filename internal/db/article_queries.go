package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/textnorm"
)

var articleColumns = []string{
	"title",
	"url",
	"source",
	"category",
	"summary",
	"published",
	"fetched_at",
	"companies",
}

// UpsertArticle inserts row or refreshes the stored row that has the same URL.
// It reports whether a new row was created.
func (p *Pool) UpsertArticle(ctx context.Context, row article.Row) (bool, error) {
	url := strings.TrimSpace(row.URL)
	if url == "" {
		return false, fmt.Errorf("article url is required")
	}
	row.URL = url

	query, args, err := buildUpsertArticle(row, time.Now().UTC())
	if err != nil {
		return false, err
	}

	inserted := false
	err = p.WithTx(ctx, func(tx Querier) error {
		var existingID int64
		err := tx.QueryRow(ctx, `SELECT id FROM articles WHERE url = ?`, url).Scan(&existingID)
		switch {
		case IsNoRows(err):
			inserted = true
		case err != nil:
			return fmt.Errorf("lookup article by url: %w", err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert article: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func buildUpsertArticle(row article.Row, now time.Time) (string, []any, error) {
	companies, err := encodeCompanies(row.Companies)
	if err != nil {
		return "", nil, err
	}

	updates := make([]string, 0, len(articleColumns))
	for _, column := range articleColumns {
		if column == "url" {
			continue
		}
		updates = append(updates, column+" = excluded."+column)
	}
	updates = append(updates, "title_key = excluded.title_key", "updated_at = excluded.updated_at")

	query, args, err := sq.Insert("articles").
		Columns(append(articleColumns, "title_key", "created_at", "updated_at")...).
		Values(
			row.Title,
			row.URL,
			row.Source,
			row.Category,
			row.Summary,
			row.Published,
			row.FetchedAt,
			companies,
			textnorm.NormalizeTitle(row.Title),
			now,
			now,
		).
		Suffix("ON CONFLICT (url) DO UPDATE SET " + strings.Join(updates, ", ")).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build upsert article query: %w", err)
	}
	return query, args, nil
}

// ListRecentRows returns up to limit rows, newest insert first.
func (p *Pool) ListRecentRows(ctx context.Context, limit int) ([]article.Row, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	query, args, err := buildListRecentRows(limit)
	if err != nil {
		return nil, err
	}

	rows, err := p.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent articles: %w", err)
	}
	defer rows.Close()

	items := make([]article.Row, 0, limit)
	for rows.Next() {
		var (
			item      article.Row
			companies string
		)
		if err := rows.Scan(
			&item.Title,
			&item.URL,
			&item.Source,
			&item.Category,
			&item.Summary,
			&item.Published,
			&item.FetchedAt,
			&companies,
		); err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		item.Companies = decodeCompanies(companies)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}
	return items, nil
}

func buildListRecentRows(limit int) (string, []any, error) {
	query, args, err := sq.Select(articleColumns...).
		From("articles").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build recent articles query: %w", err)
	}
	return query, args, nil
}

func (p *Pool) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	if err := p.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

func encodeCompanies(companies []string) (string, error) {
	if companies == nil {
		companies = []string{}
	}
	raw, err := json.Marshal(companies)
	if err != nil {
		return "", fmt.Errorf("encode companies: %w", err)
	}
	return string(raw), nil
}

// decodeCompanies treats a blank column as "not extracted" and malformed JSON
// as an empty list.
func decodeCompanies(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return []string{}
	}
	if out == nil {
		return []string{}
	}
	return out
}
