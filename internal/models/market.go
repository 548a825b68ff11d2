package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is a single daily OHLC observation.
type Bar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// Quote is the provider-side summary for a ticker. Fields the provider
// does not report stay nil.
type Quote struct {
	Symbol           string   `json:"symbol"`
	Exchange         string   `json:"exchange"`
	ShortName        string   `json:"short_name"`
	Currency         string   `json:"currency"`
	CurrentPrice     *float64 `json:"current_price"`
	PERatio          *float64 `json:"pe_ratio"`
	EPS              *float64 `json:"eps"`
	FiftyTwoWeekHigh *float64 `json:"52_week_high"`
	FiftyTwoWeekLow  *float64 `json:"52_week_low"`
}

// SearchResult is one hit from a web or news search service.
type SearchResult struct {
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	URL         string    `json:"url"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// Float returns a pointer to v. Convenience for building snapshots and
// quotes with nullable numeric fields.
func Float(v float64) *float64 {
	return &v
}
