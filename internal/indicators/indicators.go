// Package indicators computes deterministic technical indicators from daily
// OHLC bars. Pure computation: no network, no provider fallbacks. Fields
// that cannot be computed from the available history stay nil.
package indicators

import (
	"sort"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
)

const (
	maShortWindow = 50
	maLongWindow  = 200
	rangeWindow   = 60
	rsiPeriod     = 14
	supportBuffer = 0.95
	resistBuffer  = 1.05
	rsiMinBars    = rsiPeriod + 1
)

// Compute derives the indicator snapshot from a bar series. Bars are sorted
// by date before use; the input slice is not modified.
func Compute(bars []models.Bar) models.Snapshot {
	var snap models.Snapshot
	if len(bars) == 0 {
		return snap
	}

	sorted := make([]models.Bar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	closes := make([]float64, len(sorted))
	for i, b := range sorted {
		closes[i], _ = b.Close.Float64()
	}

	snap.CurrentPrice = models.Float(closes[len(closes)-1])

	if ma := trailingMean(closes, maShortWindow); ma != nil {
		snap.MovingAvg50 = ma
	}
	if ma := trailingMean(closes, maLongWindow); ma != nil {
		snap.MovingAvg200 = ma
	}

	snap.SupportLevel, snap.ResistanceLevel = supportResistance(sorted)

	if rsi := computeRSI(closes); rsi != nil {
		snap.RSI14 = rsi
	}

	return snap
}

// trailingMean averages the last window values, nil below the window size.
func trailingMean(values []float64, window int) *float64 {
	if len(values) < window {
		return nil
	}
	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return models.Float(sum / float64(window))
}

// supportResistance takes the 60-day low minus a 5% buffer as support and
// the 60-day high plus 5% as resistance. With fewer bars the whole series
// is used.
func supportResistance(bars []models.Bar) (support, resistance *float64) {
	window := bars
	if len(bars) > rangeWindow {
		window = bars[len(bars)-rangeWindow:]
	}

	low, _ := window[0].Low.Float64()
	high, _ := window[0].High.Float64()
	for _, b := range window[1:] {
		if l, _ := b.Low.Float64(); l < low {
			low = l
		}
		if h, _ := b.High.Float64(); h > high {
			high = h
		}
	}

	return models.Float(low * supportBuffer), models.Float(high * resistBuffer)
}

// computeRSI is the 14-day RSI over trailing simple means of gains and
// losses. Needs at least 15 closes. A window with zero average loss pins
// the RSI at 100.
func computeRSI(closes []float64) *float64 {
	if len(closes) < rsiMinBars {
		return nil
	}

	gainSum := 0.0
	lossSum := 0.0
	for i := len(closes) - rsiPeriod; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += -delta
		}
	}

	avgGain := gainSum / float64(rsiPeriod)
	avgLoss := lossSum / float64(rsiPeriod)

	if avgLoss == 0 {
		return models.Float(100)
	}

	rs := avgGain / avgLoss
	return models.Float(100 - (100 / (1 + rs)))
}
