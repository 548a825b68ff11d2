package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/config"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
)

// WebSearchClient scrapes the DuckDuckGo HTML endpoint for general web
// results. Used for narrative research and field-scoped fact lookups.
type WebSearchClient struct {
	client  *resty.Client
	cache   *CacheManager
	baseURL string
}

// NewWebSearchClient creates a new web search client
func NewWebSearchClient(cfg *config.Config) *WebSearchClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "web_search")
	cache := NewCacheManager(cacheDir, time.Hour, cfg.CacheEnabled)

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	return &WebSearchClient{
		client:  client,
		cache:   cache,
		baseURL: "https://html.duckduckgo.com/html/",
	}
}

// Search returns up to maxResults web results for the query.
func (wsc *WebSearchClient) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	cacheKey := map[string]interface{}{"query": query, "max": maxResults}
	var cached []models.SearchResult
	if wsc.cache.Get("web_search", "query", cacheKey, &cached) {
		return cached, nil
	}

	var results []models.SearchResult
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := wsc.client.R().
			SetContext(ctx).
			SetQueryParam("q", query).
			Get(wsc.baseURL)
		if err != nil {
			return fmt.Errorf("fetch web search: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("HTTP error %d when fetching web search", resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return fmt.Errorf("parse search HTML: %w", err)
		}

		results = results[:0]
		doc.Find(".result").EachWithBreak(func(i int, s *goquery.Selection) bool {
			if len(results) >= maxResults {
				return false
			}

			link := s.Find(".result__a").First()
			title := strings.TrimSpace(link.Text())
			href, _ := link.Attr("href")
			snippet := strings.TrimSpace(s.Find(".result__snippet").Text())

			if title == "" || href == "" {
				return true
			}

			results = append(results, models.SearchResult{
				Title:   title,
				Snippet: snippet,
				URL:     cleanRedirectURL(href),
			})
			return true
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	wsc.cache.Set("web_search", "query", cacheKey, results)

	return results, nil
}

// cleanRedirectURL unwraps the uddg redirect parameter when present.
func cleanRedirectURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
