package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Electrek</title>
  <link>https://electrek.co</link>
  <description>EV news</description>
  <item>
    <title>Tesla cuts Model Y prices</title>
    <link>https://electrek.co/tesla-cuts</link>
    <pubDate>Mon, 03 Jun 2024 10:00:00 GMT</pubDate>
    <description><![CDATA[<p>Tesla <b>cut</b> prices again.</p>]]></description>
  </item>
  <item>
    <title>No link here</title>
    <description>skipped</description>
  </item>
  <item>
    <title>Rivian opens plant</title>
    <link>https://electrek.co/rivian</link>
  </item>
</channel>
</rss>`

func TestLoadSources(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := `sources:
  - name: Electrek
    url: https://electrek.co/feed/
    categories: [EV, Battery]
  - url: " https://example.com/rss "
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write feeds file: %v", err)
	}

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources returned error: %v", err)
	}
	want := []Source{
		{Name: "Electrek", URL: "https://electrek.co/feed/", Categories: []string{"EV", "Battery"}},
		{Name: "https://example.com/rss", URL: "https://example.com/rss"},
	}
	if !reflect.DeepEqual(sources, want) {
		t.Fatalf("LoadSources mismatch\n got: %#v\nwant: %#v", sources, want)
	}
}

func TestLoadSourcesRejectsMissingURL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "feeds.yaml")
	if err := os.WriteFile(path, []byte("sources:\n  - name: Broken\n"), 0o600); err != nil {
		t.Fatalf("write feeds file: %v", err)
	}
	if _, err := LoadSources(path); err == nil || !strings.Contains(err.Error(), "sources[0] has no url") {
		t.Fatalf("expected missing url error, got %v", err)
	}
}

func TestItemsFromFeed(t *testing.T) {
	t.Parallel()

	feed := &gofeed.Feed{
		Items: []*gofeed.Item{
			{Title: "", Link: "https://example.com/a", Updated: "2024-06-01T00:00:00Z", Content: "<p>Body</p>", Description: "ignored"},
			{Title: "B", Link: "https://example.com/b", Published: "Mon, 03 Jun 2024 10:00:00 GMT"},
			{Title: "C", Link: "https://example.com/c"},
		},
	}

	got := itemsFromFeed(feed, Source{Name: "Configured"}, 2)
	want := []Item{
		{Title: "https://example.com/a", URL: "https://example.com/a", Source: "Configured", Published: "2024-06-01T00:00:00Z", Text: "Body"},
		{Title: "B", URL: "https://example.com/b", Source: "Configured", Published: "Mon, 03 Jun 2024 10:00:00 GMT"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("itemsFromFeed mismatch\n got: %#v\nwant: %#v", got, want)
	}
}

func TestCollectorCollect(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	t.Cleanup(server.Close)

	items, err := NewCollector(0).Collect(context.Background(), Source{Name: "cfg", URL: server.URL})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 linked items, got %d: %#v", len(items), items)
	}
	if items[0].Source != "Electrek" {
		t.Fatalf("expected feed title as source, got %q", items[0].Source)
	}
	if items[0].Text != "Tesla cut prices again." {
		t.Fatalf("expected stripped description, got %q", items[0].Text)
	}
	if items[0].Published != "Mon, 03 Jun 2024 10:00:00 GMT" {
		t.Fatalf("expected raw published string, got %q", items[0].Published)
	}
	if items[1].URL != "https://electrek.co/rivian" {
		t.Fatalf("unexpected second item: %#v", items[1])
	}
}
