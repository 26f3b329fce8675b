package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/trendscope/internal/article"
)

type fakeStore struct {
	rows      []article.Row
	err       error
	pingErr   error
	lastLimit int
}

func (s *fakeStore) ListRecentRows(_ context.Context, limit int) ([]article.Row, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	if len(s.rows) > limit {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func (s *fakeStore) Ping(context.Context) error {
	return s.pingErr
}

func sampleRows() []article.Row {
	return []article.Row{
		{Title: "Tesla cuts Model Y prices in US", URL: "https://a/1", Source: "A", Category: "EV", FetchedAt: "2024-06-09T10:00:00Z", Companies: []string{"Tesla"}},
		{Title: "Tesla cuts Model Y prices in U.S.", URL: "https://b/1", Source: "B", Category: "EV", FetchedAt: "2024-06-08T10:00:00Z", Companies: []string{"Tesla"}},
		{Title: "Rivian opens new plant", URL: "https://a/2", Source: "A", Category: "Manufacturing", FetchedAt: "2024-06-01T10:00:00Z", Companies: []string{"Rivian"}},
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
}

func doRequest(t *testing.T, srv *Server, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.newEcho().ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response body: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func newTestServer(store *fakeStore) *Server {
	return NewServer(store, zerolog.New(io.Discard), Options{RowLimit: 50})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec, env := doRequest(t, newTestServer(&fakeStore{}), "/api/v1/health")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("expected healthy response, got %d %+v", rec.Code, env)
	}

	rec, env = doRequest(t, newTestServer(&fakeStore{pingErr: errors.New("down")}), "/api/v1/health")
	if rec.Code != http.StatusInternalServerError || env.Status != "error" {
		t.Fatalf("expected error envelope, got %d %+v", rec.Code, env)
	}
}

func TestHotStories(t *testing.T) {
	t.Parallel()

	store := &fakeStore{rows: sampleRows()}
	rec, env := doRequest(t, newTestServer(store), "/api/v1/hot-stories")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.lastLimit != 50 {
		t.Fatalf("expected default row limit 50, got %d", store.lastLimit)
	}

	var data struct {
		Items []struct {
			Title    string   `json:"title"`
			Sources  []string `json:"sources"`
			Coverage int      `json:"coverage"`
		} `json:"items"`
		RowCount int `json:"row_count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.RowCount != 3 || len(data.Items) != 2 {
		t.Fatalf("unexpected hot stories payload: %+v", data)
	}
	top := data.Items[0]
	if top.Title != "Tesla cuts Model Y prices in US" || top.Coverage != 2 || strings.Join(top.Sources, ",") != "A,B" {
		t.Fatalf("unexpected top story: %+v", top)
	}
}

func TestVelocityWithOverrides(t *testing.T) {
	t.Parallel()

	store := &fakeStore{rows: sampleRows()}
	rec, env := doRequest(t, newTestServer(store), "/api/v1/velocity?now=2024-06-10T00:00:00Z&limit=3&noise_floor=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.lastLimit != 3 {
		t.Fatalf("expected row limit override 3, got %d", store.lastLimit)
	}

	var data struct {
		CategoryVelocity []struct {
			Subject   string `json:"subject"`
			ThisWeek  int    `json:"this_week"`
			LastWeek  int    `json:"last_week"`
			Delta     int    `json:"delta"`
			PctChange int    `json:"pct_change"`
		} `json:"category_velocity"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.CategoryVelocity) != 2 {
		t.Fatalf("expected 2 category records, got %+v", data.CategoryVelocity)
	}
	ev := data.CategoryVelocity[0]
	if ev.Subject != "EV" || ev.ThisWeek != 2 || ev.LastWeek != 0 || ev.Delta != 2 || ev.PctChange != 999 {
		t.Fatalf("unexpected EV record: %+v", ev)
	}
	mfg := data.CategoryVelocity[1]
	if mfg.Subject != "Manufacturing" || mfg.Delta != -1 || mfg.PctChange != -100 {
		t.Fatalf("unexpected Manufacturing record: %+v", mfg)
	}
}

func TestCompanyVelocity(t *testing.T) {
	t.Parallel()

	rec, env := doRequest(t, newTestServer(&fakeStore{rows: sampleRows()}), "/api/v1/company-velocity?now=2024-06-10")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(string(env.Data), `"subject":"Tesla","this_week":2,"last_week":0`) {
		t.Fatalf("expected Tesla velocity, got %s", env.Data)
	}
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	rec, env := doRequest(t, newTestServer(&fakeStore{}), "/api/v1/report?threshold=2&limit=abc&window_days=0&now=yesterday")
	if rec.Code != http.StatusBadRequest || env.Status != "fail" {
		t.Fatalf("expected 400 fail, got %d %+v", rec.Code, env)
	}
	for _, field := range []string{"threshold", "limit", "window_days", "now"} {
		if !strings.Contains(string(env.Data), `"`+field+`"`) {
			t.Fatalf("expected validation error for %s, got %s", field, env.Data)
		}
	}
}

func TestStoreErrorReturnsErrorEnvelope(t *testing.T) {
	t.Parallel()

	rec, env := doRequest(t, newTestServer(&fakeStore{err: errors.New("boom")}), "/api/v1/trends")
	if rec.Code != http.StatusInternalServerError || env.Status != "error" || env.Message != "Failed to load articles" {
		t.Fatalf("expected error envelope, got %d %+v", rec.Code, env)
	}
}

func TestEntities(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeStore{})
	rec, env := doRequest(t, srv, "/api/v1/entities?title=Rivian+and+Tesla+team+up&max=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if string(env.Data) != `{"items":["Tesla","Rivian"]}` {
		t.Fatalf("unexpected entities payload: %s", env.Data)
	}

	rec, _ = doRequest(t, srv, "/api/v1/entities")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without title or body, got %d", rec.Code)
	}
}

func TestDigest(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&fakeStore{rows: sampleRows()})

	rec, _ := doRequest(t, srv, "/api/v1/digest?now=2024-06-10T00:00:00Z")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html content type, got %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "<h1>Daily Automotive Intelligence Digest</h1>") {
		t.Fatalf("expected digest heading, got %s", rec.Body.String())
	}

	rec, _ = doRequest(t, srv, "/api/v1/digest?format=markdown")
	if !strings.HasPrefix(rec.Body.String(), "# Daily Automotive Intelligence Digest") {
		t.Fatalf("expected markdown digest, got %s", rec.Body.String())
	}

	rec, _ = doRequest(t, srv, "/api/v1/digest?format=pdf")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}

func TestUnknownAPIRouteUsesJSend(t *testing.T) {
	t.Parallel()

	rec, env := doRequest(t, newTestServer(&fakeStore{}), "/api/v1/nope")
	if rec.Code != http.StatusNotFound || env.Status != "fail" {
		t.Fatalf("expected jsend 404, got %d %+v", rec.Code, env)
	}
}
