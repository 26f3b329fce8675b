// Package ingest turns configured feeds into stored, enriched article rows.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/category"
	"horse.fit/trendscope/internal/entity"
	"horse.fit/trendscope/internal/feeds"
	"horse.fit/trendscope/internal/globaltime"
	"horse.fit/trendscope/internal/langdetect"
	"horse.fit/trendscope/internal/summarize"
	"horse.fit/trendscope/internal/textnorm"
)

const TextCap = 3000

type Store interface {
	UpsertArticle(ctx context.Context, row article.Row) (bool, error)
}

type Collector interface {
	Collect(ctx context.Context, src feeds.Source) ([]feeds.Item, error)
}

type BodyFetcher interface {
	FetchText(ctx context.Context, pageURL string, title string) (string, error)
}

type Options struct {
	// Bodies, when set, replaces feed text with the fetched article body.
	Bodies BodyFetcher
	// Language drops items detected as another language. Empty disables it.
	Language string
}

type Result struct {
	Sources       int `json:"sources"`
	FailedSources int `json:"failed_sources"`
	Collected     int `json:"collected"`
	Inserted      int `json:"inserted"`
	Updated       int `json:"updated"`
	Skipped       int `json:"skipped"`
	Failed        int `json:"failed"`
}

type Service struct {
	store      Store
	collector  Collector
	summarizer summarize.Summarizer
	opts       Options
	logger     zerolog.Logger

	languageAllowed func(text, want string) bool
}

func NewService(store Store, collector Collector, summarizer summarize.Summarizer, opts Options, logger zerolog.Logger) *Service {
	if summarizer == nil {
		summarizer = summarize.Fallback{}
	}
	return &Service{
		store:           store,
		collector:       collector,
		summarizer:      summarizer,
		opts:            opts,
		logger:          logger,
		languageAllowed: langdetect.Allowed,
	}
}

// Run collects every source once. Failures on a single source or item are
// logged and counted. Only cancellation stops the run early.
func (s *Service) Run(ctx context.Context, sources []feeds.Source) (Result, error) {
	if s == nil || s.store == nil || s.collector == nil {
		return Result{}, fmt.Errorf("ingest service is not initialized")
	}

	fetchedAt := globaltime.RFC3339()
	result := Result{Sources: len(sources)}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		items, err := s.collector.Collect(ctx, src)
		if err != nil {
			result.FailedSources++
			s.logger.Warn().Err(err).Str("source", src.Name).Str("url", src.URL).Msg("feed collect failed")
			continue
		}
		s.logger.Info().Str("source", src.Name).Int("items", len(items)).Msg("feed collected")
		result.Collected += len(items)

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			row, ok := s.buildRow(ctx, src, item, fetchedAt)
			if !ok {
				result.Skipped++
				continue
			}

			inserted, err := s.store.UpsertArticle(ctx, row)
			if err != nil {
				result.Failed++
				s.logger.Error().Err(err).Str("url", row.URL).Msg("store article failed")
				continue
			}
			if inserted {
				result.Inserted++
			} else {
				result.Updated++
			}
		}
	}

	s.logger.Info().
		Int("sources", result.Sources).
		Int("failed_sources", result.FailedSources).
		Int("collected", result.Collected).
		Int("inserted", result.Inserted).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("ingest run completed")

	return result, nil
}

func (s *Service) buildRow(ctx context.Context, src feeds.Source, item feeds.Item, fetchedAt string) (article.Row, bool) {
	url := strings.TrimSpace(item.URL)
	if url == "" {
		return article.Row{}, false
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = url
	}

	text := item.Text
	if s.opts.Bodies != nil {
		body, err := s.opts.Bodies.FetchText(ctx, url, title)
		if err != nil {
			s.logger.Debug().Err(err).Str("url", url).Msg("body fetch failed, keeping feed text")
		} else {
			text = body
		}
	}

	if !s.languageAllowed(title+"\n"+text, s.opts.Language) {
		s.logger.Debug().Str("url", url).Str("want", s.opts.Language).Msg("skipping item in other language")
		return article.Row{}, false
	}

	categoryLabel := category.Pick(title, text, src.Categories)
	text = textnorm.Truncate(text, TextCap)

	sourceName := strings.TrimSpace(item.Source)
	if sourceName == "" {
		sourceName = src.Name
	}

	return article.Row{
		Title:     title,
		URL:       url,
		Source:    sourceName,
		Category:  categoryLabel,
		Summary:   s.summary(ctx, url, text),
		Published: item.Published,
		FetchedAt: fetchedAt,
		Companies: nonNil(entity.Extract(title, text, entity.DefaultMaxResults)),
	}, true
}

func (s *Service) summary(ctx context.Context, url, text string) string {
	if strings.TrimSpace(text) == "" {
		return summarize.EmptySummary
	}
	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("summarize failed, using extractive summary")
		return summarize.Extractive(text, 3)
	}
	return summary
}

// nonNil keeps "extracted, nothing found" distinct from "not extracted".
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
