package scraper

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/datvo/accessengine/internal/config"
)

func newTestClient(t *testing.T, wikipedia, news, serp string, cfg config.ScraperConfig) *Client {
	t.Helper()
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return New(cfg, logger).WithBaseURLs(wikipedia, news, serp)
}

func TestWikipediaSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/page/summary/Taylor_Vance") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"extract": "Taylor Vance is an American record producer. She has worked with Maya Chen and Dev Patel on several albums.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Taylor_Vance"}}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "", "", config.ScraperConfig{})

	profile, err := client.WikipediaSummary(context.Background(), "Taylor Vance")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(profile.Summary, "Taylor Vance is an American record producer") {
		t.Errorf("unexpected summary: %q", profile.Summary)
	}
	if profile.URL != "https://en.wikipedia.org/wiki/Taylor_Vance" {
		t.Errorf("unexpected url: %s", profile.URL)
	}

	joined := strings.Join(profile.Associates, ",")
	if !strings.Contains(joined, "Maya Chen") || !strings.Contains(joined, "Dev Patel") {
		t.Errorf("expected associates extracted, got %v", profile.Associates)
	}
	if strings.Contains(joined, "Taylor Vance") {
		t.Errorf("celebrity's own name should be filtered: %v", profile.Associates)
	}
}

func TestWikipediaSummaryNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "", "", config.ScraperConfig{})

	if _, err := client.WikipediaSummary(context.Background(), "Nobody Here"); err == nil {
		t.Fatal("expected error for missing page")
	}
}

func TestExtractAssociatesDedupesAndCaps(t *testing.T) {
	text := strings.Repeat("Maya Chen worked with Dev Patel. ", 3) +
		"Also: Alex Rivera, Sam Brooks, Jane Smith, Omar Hassan, Lena Fischer, " +
		"Noah Kim, Priya Shah, Carlos Vega, Anna Petrov, Liam Walsh, Extra Person."

	associates := extractAssociates(text, "Taylor Vance")
	if len(associates) != 10 {
		t.Fatalf("expected associate cap of 10, got %d: %v", len(associates), associates)
	}

	seen := map[string]int{}
	for _, a := range associates {
		seen[a]++
	}
	if seen["Maya Chen"] != 1 {
		t.Errorf("expected deduped associates, got %v", associates)
	}
}

func TestRecentNewsWithoutKeyReturnsMock(t *testing.T) {
	client := newTestClient(t, "", "", "", config.ScraperConfig{})

	items := client.RecentNews(context.Background(), "Taylor Vance", 5)
	if len(items) != 2 {
		t.Fatalf("expected 2 mock articles, got %d", len(items))
	}
	if !strings.Contains(items[0].Title, "Taylor Vance") {
		t.Errorf("mock news should mention the celebrity, got %q", items[0].Title)
	}
	if items[0].Source != "TechCrunch" {
		t.Errorf("unexpected mock source: %s", items[0].Source)
	}
}

func TestRecentNewsFromAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if key := r.URL.Query().Get("apiKey"); key != "news-key" {
			t.Errorf("expected apiKey param, got %q", key)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"title": "Big tour announced", "description": "World tour.", "url": "https://example.com/a", "publishedAt": "2025-03-01T10:00:00Z", "source": {"name": "Rolling Stone"}},
				{"title": "Second story", "description": "", "url": "", "publishedAt": "", "source": {"name": ""}},
				{"title": "Third story", "description": "", "url": "", "publishedAt": "", "source": {"name": ""}}
			]
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, "", srv.URL, "", config.ScraperConfig{NewsAPIKey: "news-key"})

	items := client.RecentNews(context.Background(), "Taylor Vance", 2)
	if len(items) != 2 {
		t.Fatalf("expected result capped at 2 articles, got %d", len(items))
	}
	if items[0].Title != "Big tour announced" || items[0].Source != "Rolling Stone" {
		t.Errorf("unexpected first article: %+v", items[0])
	}
}

func TestRecentNewsFallsBackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(t, "", srv.URL, "", config.ScraperConfig{NewsAPIKey: "news-key"})

	items := client.RecentNews(context.Background(), "Taylor Vance", 5)
	if len(items) != 2 {
		t.Fatalf("expected mock fallback, got %d items", len(items))
	}
}

func TestFindConnectionsWithoutKey(t *testing.T) {
	client := newTestClient(t, "", "", "", config.ScraperConfig{})

	conns := client.FindConnections(context.Background(), "Taylor Vance")
	if conns.Manager != "" || len(conns.Investors) != 0 || len(conns.PodcastAppearances) != 0 {
		t.Fatalf("expected empty connections without key, got %+v", conns)
	}
}

func TestFindConnections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.Contains(query, "manager"):
			_, _ = w.Write([]byte(`{"organic_results": [{"title": "Team page", "snippet": "Managed by Maya Chen at Horizon Artists.", "link": ""}]}`))
		case strings.Contains(query, "investor"):
			_, _ = w.Write([]byte(`{"organic_results": [
				{"snippet": "Backed Series A of Vantage Audio."},
				{"snippet": "Invested alongside Ridge Capital."},
				{"snippet": "Seed check into Encore."},
				{"snippet": "Fourth result should be dropped."}
			]}`))
		case strings.Contains(query, "podcast"):
			_, _ = w.Write([]byte(`{"organic_results": [{"title": "Taylor Vance on The Pitch", "snippet": ""}]}`))
		default:
			_, _ = w.Write([]byte(`{"organic_results": []}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(t, "", "", srv.URL, config.ScraperConfig{SerpAPIKey: "serp-key"})

	conns := client.FindConnections(context.Background(), "Taylor Vance")
	if !strings.Contains(conns.Manager, "Maya Chen") {
		t.Errorf("expected manager snippet, got %q", conns.Manager)
	}
	if len(conns.Investors) != 3 {
		t.Errorf("expected investors capped at 3, got %d", len(conns.Investors))
	}
	if len(conns.PodcastAppearances) != 1 || !strings.Contains(conns.PodcastAppearances[0], "The Pitch") {
		t.Errorf("unexpected podcast appearances: %v", conns.PodcastAppearances)
	}
}

func TestScrapeAllDegradesGracefully(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "", "", config.ScraperConfig{})

	intel := client.ScrapeAll(context.Background(), "Taylor Vance")
	if intel.Name != "Taylor Vance" {
		t.Errorf("expected name carried through, got %s", intel.Name)
	}
	if intel.Bio != "" {
		t.Errorf("expected empty bio on wikipedia failure, got %q", intel.Bio)
	}
	if len(intel.RecentNews) != 2 {
		t.Errorf("expected mock news, got %d items", len(intel.RecentNews))
	}
}
