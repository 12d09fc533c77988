package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/datvo/accessengine/internal/config"
	"github.com/datvo/accessengine/internal/domain"
)

const (
	defaultWikipediaBaseURL = "https://en.wikipedia.org/api/rest_v1"
	defaultNewsBaseURL      = "https://newsapi.org"
	defaultSerpBaseURL      = "https://serpapi.com"

	maxAssociates  = 10
	maxNewsItems   = 5
	maxSerpResults = 5
	bioLimit       = 500
)

// namePattern matches capitalized first-plus-last name pairs in prose text.
// It is a heuristic: it misses mononyms and over-matches sentence starts, but
// it is good enough to surface candidate associates from a bio paragraph.
var namePattern = regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`)

// WikiProfile is the distilled result of a Wikipedia lookup.
type WikiProfile struct {
	Summary    string
	Associates []string
	URL        string
}

// Connections holds publicly discoverable relationship leads from web search.
type Connections struct {
	Manager            string
	Investors          []string
	PodcastAppearances []string
}

// Intel aggregates everything the scraper can learn about one person.
type Intel struct {
	Name       string
	Bio        string
	Associates []string
	RecentNews []domain.NewsItem
	Connections
	WikipediaURL string
}

// Client pulls public data about celebrities from Wikipedia, NewsAPI, and
// SerpAPI. Sources without an API key degrade to mock or empty results so the
// engine keeps working in development.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	newsAPIKey string
	serpAPIKey string
	userAgent  string

	wikipediaBaseURL string
	newsBaseURL      string
	serpBaseURL      string
}

// New builds a scraper client from configuration.
func New(cfg config.ScraperConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logger,
		newsAPIKey:       cfg.NewsAPIKey,
		serpAPIKey:       cfg.SerpAPIKey,
		userAgent:        cfg.UserAgent,
		wikipediaBaseURL: defaultWikipediaBaseURL,
		newsBaseURL:      defaultNewsBaseURL,
		serpBaseURL:      defaultSerpBaseURL,
	}
}

// WithBaseURLs overrides the upstream endpoints, primarily for tests.
func (c *Client) WithBaseURLs(wikipedia, news, serp string) *Client {
	if wikipedia != "" {
		c.wikipediaBaseURL = wikipedia
	}
	if news != "" {
		c.newsBaseURL = news
	}
	if serp != "" {
		c.serpBaseURL = serp
	}
	return c
}

// ScrapeAll pulls every available source for a celebrity. Individual source
// failures are logged and degrade to empty sections rather than failing the
// whole lookup.
func (c *Client) ScrapeAll(ctx context.Context, name string) Intel {
	intel := Intel{Name: name}

	profile, err := c.WikipediaSummary(ctx, name)
	if err != nil {
		c.logger.Warn("wikipedia lookup failed", "celebrity", name, "error", err)
	} else {
		intel.Bio = profile.Summary
		intel.Associates = profile.Associates
		intel.WikipediaURL = profile.URL
	}

	intel.RecentNews = c.RecentNews(ctx, name, maxNewsItems)
	intel.Connections = c.FindConnections(ctx, name)
	return intel
}

type wikipediaSummaryResponse struct {
	Extract     string `json:"extract"`
	Description string `json:"description"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// WikipediaSummary fetches the lead summary for a person and extracts
// candidate associates from the prose.
func (c *Client) WikipediaSummary(ctx context.Context, name string) (WikiProfile, error) {
	title := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	endpoint := fmt.Sprintf("%s/page/summary/%s", c.wikipediaBaseURL, url.PathEscape(title))

	var payload wikipediaSummaryResponse
	if err := c.getJSON(ctx, endpoint, nil, &payload); err != nil {
		return WikiProfile{}, fmt.Errorf("wikipedia summary for %q: %w", name, err)
	}

	summary := payload.Extract
	if len(summary) > bioLimit {
		summary = summary[:bioLimit]
	}

	return WikiProfile{
		Summary:    summary,
		Associates: extractAssociates(payload.Extract, name),
		URL:        payload.ContentURLs.Desktop.Page,
	}, nil
}

// extractAssociates pulls distinct capitalized name pairs from text, dropping
// any match that contains the celebrity's own name.
func extractAssociates(text, celebrityName string) []string {
	matches := namePattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	associates := make([]string, 0, len(matches))
	for _, match := range matches {
		if strings.Contains(match, celebrityName) || strings.Contains(celebrityName, match) {
			continue
		}
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		associates = append(associates, match)
		if len(associates) == maxAssociates {
			break
		}
	}
	return associates
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// RecentNews returns the latest articles mentioning the celebrity. Without an
// API key, or when the upstream call fails, mocked articles stand in so the
// intel pipeline always has news context to work with.
func (c *Client) RecentNews(ctx context.Context, name string, max int) []domain.NewsItem {
	if max <= 0 {
		max = maxNewsItems
	}
	if c.newsAPIKey == "" {
		c.logger.Debug("news api key not set, using mock news", "celebrity", name)
		return mockNews(name)
	}

	params := url.Values{
		"q":        {fmt.Sprintf("%q", name)},
		"sortBy":   {"publishedAt"},
		"pageSize": {fmt.Sprint(max)},
		"language": {"en"},
		"apiKey":   {c.newsAPIKey},
	}

	var payload newsAPIResponse
	endpoint := c.newsBaseURL + "/v2/everything"
	if err := c.getJSON(ctx, endpoint, params, &payload); err != nil {
		c.logger.Warn("news lookup failed, using mock news", "celebrity", name, "error", err)
		return mockNews(name)
	}
	if payload.Status != "ok" {
		c.logger.Warn("news api returned non-ok status, using mock news", "celebrity", name, "status", payload.Status)
		return mockNews(name)
	}

	items := make([]domain.NewsItem, 0, max)
	for _, article := range payload.Articles {
		if len(items) == max {
			break
		}
		items = append(items, domain.NewsItem{
			Title:       article.Title,
			Description: article.Description,
			URL:         article.URL,
			PublishedAt: article.PublishedAt,
			Source:      article.Source.Name,
		})
	}
	return items
}

func mockNews(name string) []domain.NewsItem {
	return []domain.NewsItem{
		{
			Title:       fmt.Sprintf("%s discusses future plans in new interview", name),
			Description: fmt.Sprintf("%s shared insights about upcoming projects and business ventures.", name),
			PublishedAt: "2025-02-20",
			Source:      "TechCrunch",
		},
		{
			Title:       fmt.Sprintf("%s seen at major tech conference", name),
			Description: "Attended multiple panels and met with investors.",
			PublishedAt: "2025-02-15",
			Source:      "Bloomberg",
		},
	}
}

type serpResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}

type serpResult struct {
	Title   string
	Snippet string
}

// FindConnections runs targeted web searches for the celebrity's manager,
// investors, and podcast appearances. Without a SerpAPI key it returns an
// empty result rather than failing.
func (c *Client) FindConnections(ctx context.Context, name string) Connections {
	var conns Connections
	if c.serpAPIKey == "" {
		c.logger.Debug("serp api key not set, skipping connection search", "celebrity", name)
		return conns
	}

	if results := c.searchGoogle(ctx, fmt.Sprintf("%q manager OR agent OR publicist", name)); len(results) > 0 {
		conns.Manager = results[0].Snippet
	}

	for _, r := range capResults(c.searchGoogle(ctx, fmt.Sprintf("%q investor OR \"backed by\" OR \"invested in\"", name)), 3) {
		conns.Investors = append(conns.Investors, r.Snippet)
	}

	for _, r := range capResults(c.searchGoogle(ctx, fmt.Sprintf("%q podcast interview 2024 OR 2025", name)), 3) {
		conns.PodcastAppearances = append(conns.PodcastAppearances, r.Title)
	}

	return conns
}

func capResults(results []serpResult, max int) []serpResult {
	if len(results) > max {
		return results[:max]
	}
	return results
}

func (c *Client) searchGoogle(ctx context.Context, query string) []serpResult {
	params := url.Values{
		"q":       {query},
		"api_key": {c.serpAPIKey},
		"num":     {fmt.Sprint(maxSerpResults)},
		"engine":  {"google"},
	}

	var payload serpResponse
	if err := c.getJSON(ctx, c.serpBaseURL+"/search", params, &payload); err != nil {
		c.logger.Warn("web search failed", "query", query, "error", err)
		return nil
	}

	results := make([]serpResult, 0, maxSerpResults)
	for _, r := range payload.OrganicResults {
		if len(results) == maxSerpResults {
			break
		}
		results = append(results, serpResult{Title: r.Title, Snippet: r.Snippet})
	}
	return results
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
