package dataflows

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/config"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
)

// YahooFinanceClient handles Yahoo Finance data operations. Indian tickers
// are suffixed with the configured exchange (".NS" for NSE) before lookup.
type YahooFinanceClient struct {
	cache    *CacheManager
	exchange string
}

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient(cfg *config.Config) *YahooFinanceClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "yahoo_finance")
	cache := NewCacheManager(cacheDir, 24*time.Hour, cfg.CacheEnabled) // 24 hour cache

	exchange := cfg.DefaultExchange
	if exchange == "" {
		exchange = "NS"
	}

	return &YahooFinanceClient{
		cache:    cache,
		exchange: exchange,
	}
}

// yahooSymbol appends the exchange suffix for bare tickers.
func (yf *YahooFinanceClient) yahooSymbol(ticker string) string {
	return fmt.Sprintf("%s.%s", NormalizeTicker(ticker), yf.exchange)
}

// Quote gets the current quote and fundamentals for a ticker.
func (yf *YahooFinanceClient) Quote(ctx context.Context, ticker string) (*models.Quote, error) {
	if err := ValidateTicker(ticker); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	symbol := yf.yahooSymbol(ticker)

	var cached models.Quote
	if yf.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	var result *models.Quote
	err := WithRetry(DefaultRetryConfig(), func() error {
		eq, err := equity.Get(symbol)
		if err != nil {
			return fmt.Errorf("get quote for %s: %w", symbol, err)
		}

		result = &models.Quote{
			Symbol:    symbol,
			Exchange:  eq.FullExchangeName,
			ShortName: eq.ShortName,
			Currency:  eq.CurrencyID,
		}
		if eq.RegularMarketPrice > 0 {
			result.CurrentPrice = models.Float(eq.RegularMarketPrice)
		}
		if eq.TrailingPE > 0 {
			result.PERatio = models.Float(eq.TrailingPE)
		}
		if eq.EpsTrailingTwelveMonths != 0 {
			result.EPS = models.Float(eq.EpsTrailingTwelveMonths)
		}
		if eq.FiftyTwoWeekHigh > 0 {
			result.FiftyTwoWeekHigh = models.Float(eq.FiftyTwoWeekHigh)
		}
		if eq.FiftyTwoWeekLow > 0 {
			result.FiftyTwoWeekLow = models.Float(eq.FiftyTwoWeekLow)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	yf.cache.Set("yahoo", "quote", symbol, result)

	return result, nil
}

// History gets daily OHLC bars for the past lookback days.
func (yf *YahooFinanceClient) History(ctx context.Context, ticker string, lookbackDays int) ([]models.Bar, error) {
	if err := ValidateTicker(ticker); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	symbol := yf.yahooSymbol(ticker)
	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}

	var cached []models.Bar
	if yf.cache.Get("yahoo", "historical", cacheKey, &cached) {
		return cached, nil
	}

	var result []models.Bar
	err := WithRetry(DefaultRetryConfig(), func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		result = make([]models.Bar, 0)
		for iter.Next() {
			bar := iter.Bar()

			result = append(result, models.Bar{
				Date:   time.Unix(int64(bar.Timestamp), 0),
				Open:   bar.Open,
				High:   bar.High,
				Low:    bar.Low,
				Close:  bar.Close,
				Volume: int64(bar.Volume),
			})
		}

		if err := iter.Err(); err != nil {
			return fmt.Errorf("get historical data for %s: %w", symbol, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no historical bars for %s", symbol)
	}

	log.Printf("[dataflows] fetched %d bars for %s", len(result), symbol)
	yf.cache.Set("yahoo", "historical", cacheKey, result)

	return result, nil
}

// LastClose returns the final close of a bar series as a float.
func LastClose(bars []models.Bar) (float64, bool) {
	if len(bars) == 0 {
		return 0, false
	}
	v, _ := bars[len(bars)-1].Close.Float64()
	return v, v != 0
}
