package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"horse.fit/trendscope/internal/article"
	"horse.fit/trendscope/internal/cluster"
	"horse.fit/trendscope/internal/digest"
	"horse.fit/trendscope/internal/entity"
	"horse.fit/trendscope/internal/globaltime"
	"horse.fit/trendscope/internal/report"
	"horse.fit/trendscope/internal/terms"
	"horse.fit/trendscope/internal/velocity"
)

const (
	maxRowLimit      = 10_000
	maxWindowDays    = 60
	maxEntityResults = 50
)

type analysisQuery struct {
	Limit  int
	Report report.Options
}

// parseAnalysisQuery applies request overrides on top of the server defaults.
func (s *Server) parseAnalysisQuery(c echo.Context) (analysisQuery, map[string]string) {
	q := analysisQuery{Limit: s.opts.RowLimit, Report: s.opts.Report}
	fieldErrors := map[string]string{}

	if limit, err := parsePositiveInt(c.QueryParam("limit"), q.Limit, 1, maxRowLimit); err != nil {
		fieldErrors["limit"] = err.Error()
	} else {
		q.Limit = limit
	}

	if raw := strings.TrimSpace(c.QueryParam("threshold")); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil || threshold <= 0 || threshold > 1 {
			fieldErrors["threshold"] = "must be a number in (0, 1]"
		} else {
			q.Report.Cluster.SimilarityThreshold = threshold
		}
	}

	intOverrides := []struct {
		name     string
		min, max int
		target   *int
	}{
		{name: "max_groups", min: 1, max: 100, target: &q.Report.Cluster.MaxGroups},
		{name: "top_n", min: 1, max: 100, target: &q.Report.TopN},
		{name: "noise_floor", min: 0, max: 1000, target: &q.Report.Velocity.NoiseFloor},
	}
	for _, o := range intOverrides {
		value, err := parsePositiveInt(c.QueryParam(o.name), *o.target, o.min, o.max)
		if err != nil {
			fieldErrors[o.name] = err.Error()
			continue
		}
		*o.target = value
	}

	if raw := strings.TrimSpace(c.QueryParam("window_days")); raw != "" {
		days, err := parsePositiveInt(raw, 0, 1, maxWindowDays)
		if err != nil {
			fieldErrors["window_days"] = err.Error()
		} else {
			q.Report.Velocity.Window = time.Duration(days) * 24 * time.Hour
		}
	}

	now, err := parseTimeParam(c.QueryParam("now"))
	if err != nil {
		fieldErrors["now"] = "must be RFC3339 or YYYY-MM-DD"
	} else if now != nil {
		q.Report.Velocity.Now = *now
	}
	if q.Report.Velocity.Now.IsZero() {
		q.Report.Velocity.Now = globaltime.UTC()
	}

	if len(fieldErrors) > 0 {
		return analysisQuery{}, fieldErrors
	}
	return q, nil
}

type validationError map[string]string

func (v validationError) Error() string {
	return "invalid query parameters"
}

// loadRows parses the query and loads the row window.
func (s *Server) loadRows(c echo.Context) (analysisQuery, []article.Row, error) {
	q, fieldErrors := s.parseAnalysisQuery(c)
	if fieldErrors != nil {
		return q, nil, validationError(fieldErrors)
	}

	rows, err := s.store.ListRecentRows(c.Request().Context(), q.Limit)
	if err != nil {
		return q, nil, fmt.Errorf("list recent rows (limit %d): %w", q.Limit, err)
	}
	return q, rows, nil
}

func (s *Server) writeLoadError(c echo.Context, err error) error {
	var fields validationError
	if errors.As(err, &fields) {
		return failValidation(c, fields)
	}
	s.logger.Error().Err(err).Msg("load article rows failed")
	return internalError(c, "Failed to load articles")
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		s.logger.Error().Err(err).Msg("database ping failed")
		return internalError(c, "Database unavailable")
	}
	return success(c, map[string]any{
		"service": "trendscope",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleReport(c echo.Context) error {
	q, rows, err := s.loadRows(c)
	if err != nil {
		return s.writeLoadError(c, err)
	}
	return success(c, report.Build(rows, q.Report))
}

func (s *Server) handleHotStories(c echo.Context) error {
	q, rows, err := s.loadRows(c)
	if err != nil {
		return s.writeLoadError(c, err)
	}
	return success(c, map[string]any{
		"items":     cluster.HotStories(rows, q.Report.Cluster),
		"row_count": len(rows),
	})
}

func (s *Server) handleTrends(c echo.Context) error {
	q, rows, err := s.loadRows(c)
	if err != nil {
		return s.writeLoadError(c, err)
	}
	return success(c, map[string]any{
		"items":     terms.TopTermsByCategory(rows, q.Report.TopN),
		"row_count": len(rows),
	})
}

func (s *Server) handleVelocity(c echo.Context) error {
	q, rows, err := s.loadRows(c)
	if err != nil {
		return s.writeLoadError(c, err)
	}
	return success(c, velocity.Compute(rows, q.Report.Velocity))
}

func (s *Server) handleCompanyVelocity(c echo.Context) error {
	q, rows, err := s.loadRows(c)
	if err != nil {
		return s.writeLoadError(c, err)
	}
	return success(c, map[string]any{
		"items": velocity.EntityVelocity(rows, q.Report.Velocity),
	})
}

func (s *Server) handleEntities(c echo.Context) error {
	title := c.QueryParam("title")
	body := c.QueryParam("body")
	if strings.TrimSpace(title) == "" && strings.TrimSpace(body) == "" {
		return failValidation(c, map[string]string{"title": "title or body is required"})
	}
	maxResults, err := parsePositiveInt(c.QueryParam("max"), entity.DefaultMaxResults, 1, maxEntityResults)
	if err != nil {
		return failValidation(c, map[string]string{"max": err.Error()})
	}

	items := entity.Extract(title, body, maxResults)
	if items == nil {
		items = []string{}
	}
	return success(c, map[string]any{
		"items": items,
	})
}

func (s *Server) handleDigest(c echo.Context) error {
	format := strings.ToLower(strings.TrimSpace(c.QueryParam("format")))
	if format != "" && format != "html" && format != "markdown" {
		return failValidation(c, map[string]string{"format": "must be html or markdown"})
	}

	q, rows, err := s.loadRows(c)
	if err != nil {
		return s.writeLoadError(c, err)
	}

	d, err := digest.Render(report.Build(rows, q.Report), digest.Meta{})
	if err != nil {
		s.logger.Error().Err(err).Msg("render digest failed")
		return internalError(c, "Failed to render digest")
	}

	if format == "markdown" {
		return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(d.Markdown))
	}
	return c.HTML(http.StatusOK, d.HTML)
}

func parsePositiveInt(raw string, defaultValue, minValue, maxValue int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if value < minValue || value > maxValue {
		return 0, fmt.Errorf("must be between %d and %d", minValue, maxValue)
	}
	return value, nil
}

func parseTimeParam(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
		utc := ts.UTC()
		return &utc, nil
	}

	if day, err := time.Parse(time.DateOnly, trimmed); err == nil {
		utc := day.UTC()
		return &utc, nil
	}

	return nil, fmt.Errorf("invalid time format")
}
