package dataflows

import (
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/config"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	PubDate     string    `xml:"pubDate"`
	Source      rssSource `xml:"source"`
}

type rssSource struct {
	URL  string `xml:"url,attr"`
	Text string `xml:",chardata"`
}

// GoogleNewsClient fetches headlines from the Google News RSS feed with an
// Indian-market locale.
type GoogleNewsClient struct {
	client *resty.Client
	cache  *CacheManager
}

// NewGoogleNewsClient creates a new Google News client
func NewGoogleNewsClient(cfg *config.Config) *GoogleNewsClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "google_news")
	cache := NewCacheManager(cacheDir, 30*time.Minute, cfg.CacheEnabled) // 30 minute cache for news

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	return &GoogleNewsClient{
		client: client,
		cache:  cache,
	}
}

// SearchNews returns up to maxResults headlines for the query, newest first
// as served by the feed.
func (gnc *GoogleNewsClient) SearchNews(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	cacheKey := map[string]interface{}{"query": query, "max": maxResults}
	var cached []models.SearchResult
	if gnc.cache.Get("google_news", "rss", cacheKey, &cached) {
		return cached, nil
	}

	feedURL := buildNewsRSSURL(query)

	var results []models.SearchResult
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := gnc.client.R().SetContext(ctx).Get(feedURL)
		if err != nil {
			return fmt.Errorf("fetch news feed: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("HTTP error %d when fetching news feed", resp.StatusCode())
		}

		var feed rssFeed
		if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
			return fmt.Errorf("parse news feed: %w", err)
		}

		results = results[:0]
		for i, item := range feed.Channel.Items {
			if i >= maxResults {
				break
			}
			results = append(results, newsItemToResult(item))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	log.Printf("[dataflows] news search %q returned %d items", query, len(results))
	gnc.cache.Set("google_news", "rss", cacheKey, results)

	return results, nil
}

func buildNewsRSSURL(query string) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("hl", "en-IN")
	v.Set("gl", "IN")
	v.Set("ceid", "IN:en")
	return "https://news.google.com/rss/search?" + v.Encode()
}

func newsItemToResult(item rssItem) models.SearchResult {
	pubTime, err := time.Parse(time.RFC1123Z, item.PubDate)
	if err != nil {
		pubTime, _ = time.Parse(time.RFC1123, item.PubDate)
	}

	source := item.Source.Text
	if source == "" && item.Source.URL != "" {
		if u, err := url.Parse(item.Source.URL); err == nil {
			source = u.Host
		}
	}

	return models.SearchResult{
		Title:       strings.TrimSpace(item.Title),
		Snippet:     cleanHTMLContent(item.Description),
		URL:         item.Link,
		Source:      source,
		PublishedAt: pubTime,
	}
}

// cleanHTMLContent strips markup from an RSS description.
func cleanHTMLContent(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return stripHTMLTags(htmlContent)
	}

	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return stripHTMLTags(htmlContent)
	}

	return text
}

var (
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	spaceRegex   = regexp.MustCompile(`\s+`)
)

func stripHTMLTags(content string) string {
	content = htmlTagRegex.ReplaceAllString(content, "")

	replacements := [][2]string{
		{"&nbsp;", " "},
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&quot;", "\""},
		{"&#39;", "'"},
	}
	for _, r := range replacements {
		content = strings.ReplaceAll(content, r[0], r[1])
	}

	return strings.TrimSpace(spaceRegex.ReplaceAllString(content, " "))
}
