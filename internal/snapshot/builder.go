package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/indicators"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
)

// MarketDataService is the provider tier.
type MarketDataService interface {
	Quote(ctx context.Context, ticker string) (*models.Quote, error)
	History(ctx context.Context, ticker string, lookbackDays int) ([]models.Bar, error)
}

// WebSearchService supplies field-scoped web results for extraction.
type WebSearchService interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}

// NewsSearchService supplies headlines for the negative-news check.
type NewsSearchService interface {
	SearchNews(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}

// Extractor turns search material into typed values.
type Extractor interface {
	GenerateJSON(ctx context.Context, prompt string, out interface{}) error
}

// Builder assembles the two-tier snapshot for a company.
type Builder struct {
	market       MarketDataService
	web          WebSearchService
	news         NewsSearchService
	extractor    Extractor
	lookbackDays int
}

// NewBuilder wires the collaborators. Any of them may be nil; the matching
// tier is simply skipped.
func NewBuilder(market MarketDataService, web WebSearchService, news NewsSearchService, extractor Extractor, lookbackDays int) *Builder {
	if lookbackDays <= 0 {
		lookbackDays = 365
	}
	return &Builder{
		market:       market,
		web:          web,
		news:         news,
		extractor:    extractor,
		lookbackDays: lookbackDays,
	}
}

// Result is the sourced snapshot plus the negative-news verdict.
type Result struct {
	Ticker              string          `json:"ticker"`
	Snapshot            models.Snapshot `json:"snapshot"`
	ProviderOK          bool            `json:"provider_ok"`
	NegativeNews        bool            `json:"negative_news"`
	NegativeNewsSummary string          `json:"negative_news_summary"`
}

// Build sources the snapshot: provider quote and history first, then
// narrative extraction for whatever is still missing, merged provider-wins.
// The research argument carries upstream findings about the company into
// the extraction prompt as background. Tier failures degrade the result
// instead of failing the build.
func (b *Builder) Build(ctx context.Context, company, ticker, research string) *Result {
	res := &Result{Ticker: ticker}

	provider := b.providerSnapshot(ctx, ticker, res)
	extracted := b.extractedSnapshot(ctx, company, research, provider)
	res.Snapshot = Merge(provider, extracted)

	b.checkNegativeNews(ctx, company, res)

	return res
}

func (b *Builder) providerSnapshot(ctx context.Context, ticker string, res *Result) models.Snapshot {
	var snap models.Snapshot
	if b.market == nil || ticker == "" {
		return snap
	}

	bars, err := b.market.History(ctx, ticker, b.lookbackDays)
	if err != nil {
		log.Printf("[snapshot] history fetch failed for %s: %v", ticker, err)
	} else {
		snap = indicators.Compute(bars)
		res.ProviderOK = true
	}

	quote, err := b.market.Quote(ctx, ticker)
	if err != nil {
		log.Printf("[snapshot] quote fetch failed for %s: %v", ticker, err)
		return snap
	}
	res.ProviderOK = true

	if snap.CurrentPrice == nil {
		snap.CurrentPrice = quote.CurrentPrice
	}
	snap.PERatio = quote.PERatio
	snap.EPS = quote.EPS
	snap.FiftyTwoWeekHigh = quote.FiftyTwoWeekHigh
	snap.FiftyTwoWeekLow = quote.FiftyTwoWeekLow

	return snap
}

// fieldQueries maps gap groups to the web query that should cover them.
func fieldQueries(company string, missing []string) []string {
	missingSet := make(map[string]bool, len(missing))
	for _, m := range missing {
		missingSet[m] = true
	}

	var queries []string
	if missingSet["rsi_value"] || missingSet["moving_avg_50"] || missingSet["moving_avg_200"] {
		queries = append(queries, fmt.Sprintf("%s stock RSI technical analysis India", company))
	}
	if missingSet["pe_ratio"] || missingSet["eps"] {
		queries = append(queries, fmt.Sprintf("%s stock P/E ratio EPS valuation India NSE BSE", company))
	}
	if missingSet["target_price_low"] || missingSet["target_price_avg"] || missingSet["target_price_high"] {
		queries = append(queries, fmt.Sprintf("%s stock target price analyst recommendation India NSE rupees", company))
	}
	if missingSet["beta"] || missingSet["52_week_high"] || missingSet["52_week_low"] {
		queries = append(queries, fmt.Sprintf("%s stock volatility beta India", company))
	}
	return queries
}

func (b *Builder) extractedSnapshot(ctx context.Context, company, research string, provider models.Snapshot) models.Snapshot {
	var snap models.Snapshot
	if b.web == nil || b.extractor == nil {
		return snap
	}

	missing := provider.MissingFields()
	if len(missing) == 0 {
		return snap
	}

	var material []models.SearchResult
	for _, q := range fieldQueries(company, missing) {
		results, err := b.web.Search(ctx, q, 2)
		if err != nil {
			log.Printf("[snapshot] web search failed for %q: %v", q, err)
			continue
		}
		material = append(material, results...)
	}
	if len(material) == 0 {
		return snap
	}

	providerJSON, _ := json.MarshalIndent(provider, "", "  ")
	materialJSON, _ := json.MarshalIndent(material, "", "  ")

	notes := ""
	if research != "" {
		notes = fmt.Sprintf("\nRESEARCH NOTES (background on the company, use numbers from here only when nothing above states them):\n%s\n", research)
	}

	prompt := fmt.Sprintf(`You are a technical analyst covering stocks traded on NSE/BSE. All prices are in Indian Rupees.

KNOWN STRUCTURED VALUES (already computed from market data, keep them as-is):
%s
%s
WEB SEARCH RESULTS (use only for fields that are null above):
%s

Fill in the missing fields for %s. Prefer the known structured values whenever present; never overwrite them with web numbers. Use null for anything the material does not state.

Respond in JSON with exactly these fields: current_price, moving_avg_50, moving_avg_200, rsi_value, support_level, resistance_level, pe_ratio, eps, beta, target_price_low, target_price_avg, target_price_high, 52_week_high, 52_week_low. Each value is a number or null.`,
		providerJSON, notes, materialJSON, company)

	if err := b.extractor.GenerateJSON(ctx, prompt, &snap); err != nil {
		log.Printf("[snapshot] extraction failed for %s: %v", company, err)
		return models.Snapshot{}
	}

	return snap
}

type negativeNewsVerdict struct {
	IsNegative bool   `json:"is_negative"`
	Summary    string `json:"summary"`
}

func (b *Builder) checkNegativeNews(ctx context.Context, company string, res *Result) {
	if b.news == nil || b.extractor == nil {
		return
	}

	query := fmt.Sprintf("%s stock fraud scam loss bankruptcy investigation SEBI warning", company)
	results, err := b.news.SearchNews(ctx, query, 3)
	if err != nil {
		log.Printf("[snapshot] negative news search failed for %s: %v", company, err)
		return
	}
	if len(results) == 0 {
		return
	}

	var lines []string
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, r.Snippet))
	}

	prompt := fmt.Sprintf(`These headlines came from a search for fraud, scam, investigation or regulatory trouble around %s:

%s

Decide whether they describe genuinely negative, investment-relevant news about this company (not routine market moves or generic sector pieces).

Respond in JSON: {"is_negative": <bool>, "summary": "<one sentence if negative, empty otherwise>"}`,
		company, strings.Join(lines, "\n"))

	var verdict negativeNewsVerdict
	if err := b.extractor.GenerateJSON(ctx, prompt, &verdict); err != nil {
		log.Printf("[snapshot] negative news classification failed for %s: %v", company, err)
		return
	}

	res.NegativeNews = verdict.IsNegative
	res.NegativeNewsSummary = verdict.Summary
}
