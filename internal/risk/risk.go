// Package risk applies fixed threshold rules to an indicator snapshot.
// Every flag is recomputed from numbers; narrative text never changes a
// flag, it only supplies the negative-news summary passed through.
package risk

import (
	"fmt"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
)

const (
	overboughtRSI   = 70.0
	oversoldRSI     = 30.0
	expensivePE     = 40.0
	speculativeBeta = 1.5
	// 52-week range wider than half the current price marks the stock
	// speculative even at moderate beta.
	speculativeRangeRatio = 0.5
)

// Flags is the deterministic risk assessment for one equity. Expensive
// valuation has no boolean of its own; it surfaces through Warnings only.
type Flags struct {
	Overbought   bool     `json:"overbought"`
	Oversold     bool     `json:"oversold"`
	NegativeNews bool     `json:"negative_news"`
	Speculative  bool     `json:"speculative"`
	Warnings     []string `json:"warnings"`
}

// Clean reports that no rule fired. Rendered as an explicit all-clear
// line, never as silence.
func (f Flags) Clean() bool {
	return len(f.Warnings) == 0
}

// Evaluate derives the flags from the snapshot plus the negative-news
// verdict. Warnings are appended in rule order: RSI, valuation, news,
// speculation. Missing fields skip their rule without firing it.
func Evaluate(snap models.Snapshot, negativeNews bool, negativeSummary string) Flags {
	var f Flags

	if snap.RSI14 != nil && *snap.RSI14 > overboughtRSI {
		f.Overbought = true
		f.Warnings = append(f.Warnings, "OVERBOUGHT (RSI > 70) - Stock may be due for correction. Wait for pullback before buying.")
	}
	if snap.RSI14 != nil && *snap.RSI14 < oversoldRSI {
		f.Oversold = true
		f.Warnings = append(f.Warnings, "OVERSOLD (RSI < 30) - Stock may be undervalued. Potential buying opportunity.")
	}

	if ExpensiveValuation(snap) {
		f.Warnings = append(f.Warnings, "EXPENSIVE VALUATION (P/E > 40) - Stock is trading at high valuation. Price in a lot of growth.")
	}

	if negativeNews {
		f.NegativeNews = true
		summary := negativeSummary
		if summary == "" {
			summary = "Negative news detected"
		}
		f.Warnings = append(f.Warnings, fmt.Sprintf("NEGATIVE NEWS ALERT - %s", summary))
		f.Warnings = append(f.Warnings, "AVOID NOW - Do not invest until situation clarifies!")
	}

	if speculative(snap) {
		f.Speculative = true
		f.Warnings = append(f.Warnings, "SPECULATIVE ZONE - High volatility/beta. Only for aggressive investors.")
	}

	return f
}

// ExpensiveValuation reports whether the P/E rule fires for the snapshot.
func ExpensiveValuation(snap models.Snapshot) bool {
	return snap.PERatio != nil && *snap.PERatio > expensivePE
}

func speculative(snap models.Snapshot) bool {
	if snap.Beta != nil && *snap.Beta > speculativeBeta {
		return true
	}
	if snap.FiftyTwoWeekHigh != nil && snap.FiftyTwoWeekLow != nil &&
		snap.CurrentPrice != nil && *snap.CurrentPrice > 0 {
		spread := *snap.FiftyTwoWeekHigh - *snap.FiftyTwoWeekLow
		if spread/(*snap.CurrentPrice) > speculativeRangeRatio {
			return true
		}
	}
	return false
}

// Verdict summarizes trend direction from price against the long moving
// averages: bullish when price and MA50 both sit above MA200, bearish when
// both sit below, neutral otherwise or when data is missing.
func Verdict(snap models.Snapshot) string {
	if snap.CurrentPrice == nil || snap.MovingAvg50 == nil || snap.MovingAvg200 == nil {
		return "neutral"
	}
	switch {
	case *snap.CurrentPrice > *snap.MovingAvg200 && *snap.MovingAvg50 > *snap.MovingAvg200:
		return "bullish"
	case *snap.CurrentPrice < *snap.MovingAvg200 && *snap.MovingAvg50 < *snap.MovingAvg200:
		return "bearish"
	default:
		return "neutral"
	}
}
