package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
)

func TestMergeProviderWinsEveryField(t *testing.T) {
	provider := models.Snapshot{}
	extracted := models.Snapshot{}

	for i, f := range provider.Fields() {
		v := float64(100 + i)
		*f.Slot = &v
	}
	for i, f := range extracted.Fields() {
		v := float64(900 + i)
		*f.Slot = &v
	}

	merged := Merge(provider, extracted)
	for i, f := range merged.Fields() {
		if *f.Slot == nil {
			t.Fatalf("field %s lost in merge", f.Name)
		}
		if want := float64(100 + i); **f.Slot != want {
			t.Errorf("field %s = %v, provider value %v must win", f.Name, **f.Slot, want)
		}
	}
}

func TestMergeExtractionFillsGaps(t *testing.T) {
	provider := models.Snapshot{
		CurrentPrice: models.Float(2870),
		RSI14:        models.Float(62),
	}
	extracted := models.Snapshot{
		CurrentPrice: models.Float(9999),
		Beta:         models.Float(1.2),
		PERatio:      models.Float(28),
	}

	merged := Merge(provider, extracted)

	if *merged.CurrentPrice != 2870 {
		t.Errorf("provider price must survive, got %v", *merged.CurrentPrice)
	}
	if merged.Beta == nil || *merged.Beta != 1.2 {
		t.Errorf("extracted beta must fill the gap")
	}
	if merged.PERatio == nil || *merged.PERatio != 28 {
		t.Errorf("extracted P/E must fill the gap")
	}
	if merged.MovingAvg50 != nil {
		t.Errorf("fields missing on both sides stay nil")
	}
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	extracted := models.Snapshot{Beta: models.Float(1.2)}
	merged := Merge(models.Snapshot{}, extracted)

	*merged.Beta = 5
	if *extracted.Beta != 1.2 {
		t.Errorf("merge must copy values, not share pointers")
	}
}

type fakeMarket struct {
	quote    *models.Quote
	bars     []models.Bar
	quoteErr error
	histErr  error
}

func (f *fakeMarket) Quote(ctx context.Context, ticker string) (*models.Quote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return f.quote, nil
}

func (f *fakeMarket) History(ctx context.Context, ticker string, lookbackDays int) ([]models.Bar, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	return f.bars, nil
}

type fakeSearch struct {
	results []models.SearchResult
	err     error
	queries []string
}

func (f *fakeSearch) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func (f *fakeSearch) SearchNews(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	return f.Search(ctx, query, maxResults)
}

type fakeExtractor struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeExtractor) GenerateJSON(ctx context.Context, prompt string, out interface{}) error {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.reply), out)
}

func testBars(n int) []models.Bar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		d := decimal.NewFromInt(int64(100 + i%10))
		bars[i] = models.Bar{Date: start.AddDate(0, 0, i), Open: d, High: d, Low: d, Close: d, Volume: 100}
	}
	return bars
}

func TestBuildProviderTier(t *testing.T) {
	market := &fakeMarket{
		quote: &models.Quote{
			Symbol:           "RELIANCE.NS",
			PERatio:          models.Float(28),
			EPS:              models.Float(102),
			FiftyTwoWeekHigh: models.Float(3200),
			FiftyTwoWeekLow:  models.Float(2200),
		},
		bars: testBars(220),
	}
	b := NewBuilder(market, nil, nil, nil, 365)

	res := b.Build(context.Background(), "Reliance Industries", "RELIANCE", "")
	if !res.ProviderOK {
		t.Fatalf("provider tier must be marked ok")
	}
	if res.Snapshot.CurrentPrice == nil || res.Snapshot.MovingAvg50 == nil || res.Snapshot.RSI14 == nil {
		t.Errorf("computed indicators missing: %+v", res.Snapshot)
	}
	if res.Snapshot.PERatio == nil || *res.Snapshot.PERatio != 28 {
		t.Errorf("quote P/E must land in the snapshot")
	}
	if res.NegativeNews {
		t.Errorf("no news service wired, negative news must stay false")
	}
}

func TestBuildExtractionFillsProviderGaps(t *testing.T) {
	market := &fakeMarket{
		quote: &models.Quote{Symbol: "ZZZCORP.NS", CurrentPrice: models.Float(150)},
		bars:  testBars(20),
	}
	web := &fakeSearch{results: []models.SearchResult{{Title: "Zzzcorp analysis", Snippet: "beta 1.9"}}}
	extractor := &fakeExtractor{reply: `{"beta": 1.9, "current_price": 9999, "target_price_avg": 210}`}

	b := NewBuilder(market, web, nil, extractor, 365)
	res := b.Build(context.Background(), "Zzzcorp", "ZZZCORP", "")

	if res.Snapshot.CurrentPrice == nil || *res.Snapshot.CurrentPrice == 9999 {
		t.Errorf("provider price must win over extraction")
	}
	if res.Snapshot.Beta == nil || *res.Snapshot.Beta != 1.9 {
		t.Errorf("extracted beta must fill the gap")
	}
	if res.Snapshot.TargetPriceAvg == nil || *res.Snapshot.TargetPriceAvg != 210 {
		t.Errorf("extracted target must fill the gap")
	}
	if len(web.queries) == 0 {
		t.Errorf("missing fields must trigger scoped searches")
	}
}

func TestBuildExtractionPromptCarriesResearch(t *testing.T) {
	market := &fakeMarket{
		quote: &models.Quote{Symbol: "ZZZCORP.NS", CurrentPrice: models.Float(150)},
		bars:  testBars(20),
	}
	web := &fakeSearch{results: []models.SearchResult{{Title: "Zzzcorp analysis", Snippet: "beta 1.9"}}}
	extractor := &fakeExtractor{reply: `{"beta": 1.9}`}

	b := NewBuilder(market, web, nil, extractor, 365)
	b.Build(context.Background(), "Zzzcorp", "ZZZCORP", "Q1 margins compressed on input costs")

	if len(extractor.prompts) == 0 {
		t.Fatalf("extraction must run when fields are missing")
	}
	found := false
	for _, p := range extractor.prompts {
		if strings.Contains(p, "Q1 margins compressed on input costs") {
			found = true
		}
	}
	if !found {
		t.Errorf("research notes must reach the extraction prompt")
	}
}

func TestBuildSurvivesProviderFailure(t *testing.T) {
	market := &fakeMarket{quoteErr: errors.New("rate limited"), histErr: errors.New("rate limited")}
	web := &fakeSearch{results: []models.SearchResult{{Title: "x", Snippet: "y"}}}
	extractor := &fakeExtractor{reply: `{"current_price": 2870, "pe_ratio": 25}`}

	b := NewBuilder(market, web, nil, extractor, 365)
	res := b.Build(context.Background(), "Reliance", "RELIANCE", "")

	if res.ProviderOK {
		t.Errorf("provider tier failed, must not be marked ok")
	}
	if res.Snapshot.CurrentPrice == nil || *res.Snapshot.CurrentPrice != 2870 {
		t.Errorf("extraction must still populate the snapshot")
	}
}

func TestBuildNegativeNews(t *testing.T) {
	news := &fakeSearch{results: []models.SearchResult{{Title: "Regulator opens probe", Snippet: "investigation begins"}}}
	extractor := &fakeExtractor{reply: `{"is_negative": true, "summary": "Regulatory probe opened"}`}

	b := NewBuilder(nil, nil, news, extractor, 365)
	res := b.Build(context.Background(), "Zzzcorp", "", "")

	if !res.NegativeNews {
		t.Fatalf("negative verdict must pass through")
	}
	if res.NegativeNewsSummary != "Regulatory probe opened" {
		t.Errorf("summary must pass through, got %q", res.NegativeNewsSummary)
	}
}

func TestBuildNegativeNewsClassifierFailureIsClean(t *testing.T) {
	news := &fakeSearch{results: []models.SearchResult{{Title: "headline"}}}
	extractor := &fakeExtractor{err: errors.New("model unavailable")}

	b := NewBuilder(nil, nil, news, extractor, 365)
	res := b.Build(context.Background(), "Zzzcorp", "", "")

	if res.NegativeNews {
		t.Errorf("classification failure must not invent a negative verdict")
	}
}
