package indicators

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
)

// barsFromCloses builds a daily series where high/low bracket each close.
func barsFromCloses(closes ...float64) []models.Bar {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		d := decimal.NewFromFloat(c)
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   d,
			High:   d.Mul(decimal.NewFromFloat(1.01)),
			Low:    d.Mul(decimal.NewFromFloat(0.99)),
			Close:  d,
			Volume: 1000,
		}
	}
	return bars
}

func constantSeries(value float64, n int) []models.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = value
	}
	return barsFromCloses(closes...)
}

func TestComputeEmptySeries(t *testing.T) {
	snap := Compute(nil)
	if snap.CurrentPrice != nil || snap.MovingAvg50 != nil || snap.RSI14 != nil {
		t.Errorf("empty series must produce an all-nil snapshot: %+v", snap)
	}
}

func TestMovingAveragesBelowWindowAreNil(t *testing.T) {
	snap := Compute(constantSeries(100, 49))
	if snap.MovingAvg50 != nil {
		t.Errorf("MA50 must be nil with 49 bars, got %v", *snap.MovingAvg50)
	}
	if snap.MovingAvg200 != nil {
		t.Errorf("MA200 must be nil with 49 bars, got %v", *snap.MovingAvg200)
	}
	if snap.CurrentPrice == nil || *snap.CurrentPrice != 100 {
		t.Errorf("current price must still be the last close")
	}
}

func TestMovingAverageConstantSeries(t *testing.T) {
	snap := Compute(constantSeries(250, 200))
	if snap.MovingAvg50 == nil || *snap.MovingAvg50 != 250 {
		t.Errorf("MA50 of constant series must equal the constant, got %v", snap.MovingAvg50)
	}
	if snap.MovingAvg200 == nil || *snap.MovingAvg200 != 250 {
		t.Errorf("MA200 of constant series must equal the constant, got %v", snap.MovingAvg200)
	}
}

func TestSupportBelowResistance(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	snap := Compute(barsFromCloses(closes...))

	if snap.SupportLevel == nil || snap.ResistanceLevel == nil {
		t.Fatalf("support and resistance must be set")
	}
	if *snap.SupportLevel >= *snap.ResistanceLevel {
		t.Errorf("support %v must be below resistance %v", *snap.SupportLevel, *snap.ResistanceLevel)
	}
}

func TestSupportResistanceBuffers(t *testing.T) {
	// Constant closes: low = 99, high = 101 for every bar.
	snap := Compute(constantSeries(100, 70))

	wantSupport := 99 * 0.95
	wantResistance := 101 * 1.05
	if diff := *snap.SupportLevel - wantSupport; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("support = %v, want %v", *snap.SupportLevel, wantSupport)
	}
	if diff := *snap.ResistanceLevel - wantResistance; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("resistance = %v, want %v", *snap.ResistanceLevel, wantResistance)
	}
}

func TestRSIRequiresFifteenBars(t *testing.T) {
	snap := Compute(constantSeries(100, 14))
	if snap.RSI14 != nil {
		t.Errorf("RSI must be nil with 14 bars, got %v", *snap.RSI14)
	}
}

func TestRSIAllGainsIsHundred(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	snap := Compute(barsFromCloses(closes...))

	if snap.RSI14 == nil {
		t.Fatalf("RSI must be computed with 20 bars")
	}
	if *snap.RSI14 != 100 {
		t.Errorf("monotonic gains must pin RSI at 100, got %v", *snap.RSI14)
	}
}

func TestRSIAllLossesIsZero(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	snap := Compute(barsFromCloses(closes...))

	if snap.RSI14 == nil {
		t.Fatalf("RSI must be computed with 20 bars")
	}
	if *snap.RSI14 != 0 {
		t.Errorf("monotonic losses must give RSI 0, got %v", *snap.RSI14)
	}
}

func TestRSIOverboughtAtRallyPeak(t *testing.T) {
	// 20 up days followed by 20 down days. Measured at the peak the
	// trailing window is all gains, so RSI must sit above 70.
	closes := make([]float64, 40)
	for i := 0; i < 20; i++ {
		closes[i] = 100 + 2*float64(i)
	}
	for i := 20; i < 40; i++ {
		closes[i] = closes[19] - 2*float64(i-19)
	}

	atPeak := Compute(barsFromCloses(closes[:20]...))
	if atPeak.RSI14 == nil {
		t.Fatalf("RSI must be computed at the peak")
	}
	if *atPeak.RSI14 <= 70 {
		t.Errorf("sustained rally must push RSI above 70, got %v", *atPeak.RSI14)
	}

	full := Compute(barsFromCloses(closes...))
	if full.RSI14 == nil || *full.RSI14 > 30 {
		t.Errorf("after the slide the trailing window is all losses, got %v", full.RSI14)
	}
}

func TestRSIWithinBounds(t *testing.T) {
	closes := []float64{
		100, 103, 101, 105, 102, 108, 104, 110, 106, 112,
		109, 115, 111, 118, 114, 120, 117, 123, 119, 125,
	}
	snap := Compute(barsFromCloses(closes...))

	if snap.RSI14 == nil {
		t.Fatalf("RSI must be computed")
	}
	if *snap.RSI14 < 0 || *snap.RSI14 > 100 {
		t.Errorf("RSI out of bounds: %v", *snap.RSI14)
	}
}

func TestComputeSortsUnorderedBars(t *testing.T) {
	bars := barsFromCloses(100, 110, 120)
	bars[0], bars[2] = bars[2], bars[0]

	snap := Compute(bars)
	if snap.CurrentPrice == nil || *snap.CurrentPrice != 120 {
		t.Errorf("last close by date must be 120, got %v", snap.CurrentPrice)
	}
}
