package research

import (
	"fmt"
	"strings"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/risk"
)

// formatRupee renders a nullable price as "₹1,234.56", or "N/A" when the
// value never arrived from either tier.
func formatRupee(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return "₹" + groupDigits(fmt.Sprintf("%.2f", *v))
}

// formatNumber renders a nullable plain number with two decimals.
func formatNumber(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

// groupDigits inserts thousands separators into the integer part of a
// fixed-point decimal string.
func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}

func rsiStatus(f risk.Flags) string {
	switch {
	case f.Overbought:
		return "OVERBOUGHT"
	case f.Oversold:
		return "OVERSOLD"
	default:
		return "NEUTRAL"
	}
}

func peStatus(snap models.Snapshot) string {
	if risk.ExpensiveValuation(snap) {
		return "EXPENSIVE"
	}
	return "REASONABLE"
}

func volatilityStatus(f risk.Flags) string {
	if f.Speculative {
		return "HIGH"
	}
	return "MODERATE"
}

// renderTechnicalSummary lays out the snapshot as the beginner-friendly
// markdown block the final report embeds: indicator tables, analyst
// targets, volatility metrics, the trend verdict and the risk warnings.
func renderTechnicalSummary(company string, snap models.Snapshot, flags risk.Flags, verdict string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Technical Analysis for %s**\n\n---\n\n", company)

	b.WriteString("**Key Indicators**\n\n")
	b.WriteString("| Indicator | Value | What it Means |\n")
	b.WriteString("|-----------|-------|---------------|\n")
	fmt.Fprintf(&b, "| **RSI (14-day)** | %s (%s) | *RSI measures if a stock is oversold (<30) or overbought (>70). If everyone is buying (>70), it might be too hot.* |\n",
		formatNumber(snap.RSI14), rsiStatus(flags))
	fmt.Fprintf(&b, "| **P/E Ratio** | %s (%s) | *Price-to-Earnings shows how many years of earnings you pay for. A P/E of 20 means ₹20 for ₹1 of profit.* |\n",
		formatNumber(snap.PERatio), peStatus(snap))
	fmt.Fprintf(&b, "| **EPS** | %s | *Earnings per share. Higher EPS means more profitable.* |\n", formatRupee(snap.EPS))

	b.WriteString("\n---\n\n**Moving Averages & Support/Resistance**\n\n")
	b.WriteString("| Level | Price | Meaning |\n")
	b.WriteString("|-------|-------|---------|\n")
	fmt.Fprintf(&b, "| **50-Day MA** | %s | *Short-term trend. Price above it is short-term bullish.* |\n", formatRupee(snap.MovingAvg50))
	fmt.Fprintf(&b, "| **200-Day MA** | %s | *Long-term trend. Price above it is long-term bullish.* |\n", formatRupee(snap.MovingAvg200))
	fmt.Fprintf(&b, "| **Support Level** | %s | *Price floor the stock tends to bounce up from.* |\n", formatRupee(snap.SupportLevel))
	fmt.Fprintf(&b, "| **Resistance Level** | %s | *Price ceiling the stock struggles to break above.* |\n", formatRupee(snap.ResistanceLevel))

	b.WriteString("\n---\n\n**Analyst Target Price (in ₹)**\n\n")
	b.WriteString("| Target | Price |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| **Low Target** | %s |\n", formatRupee(snap.TargetPriceLow))
	fmt.Fprintf(&b, "| **Average Target** | %s |\n", formatRupee(snap.TargetPriceAvg))
	fmt.Fprintf(&b, "| **High Target** | %s |\n", formatRupee(snap.TargetPriceHigh))

	b.WriteString("\n---\n\n**Volatility & Risk Metrics**\n\n")
	b.WriteString("| Metric | Value | Meaning |\n")
	b.WriteString("|--------|-------|---------|\n")
	fmt.Fprintf(&b, "| **Current Price** | %s | *Latest close.* |\n", formatRupee(snap.CurrentPrice))
	fmt.Fprintf(&b, "| **Volatility** | %s | *How much the price swings. HIGH is risky but can gain big.* |\n", volatilityStatus(flags))
	fmt.Fprintf(&b, "| **Beta** | %s | *Beta 1 moves like the market; above 1 is more volatile.* |\n", formatNumber(snap.Beta))
	fmt.Fprintf(&b, "| **52-Week Range** | %s - %s | *Lowest and highest price in the last year.* |\n",
		formatRupee(snap.FiftyTwoWeekLow), formatRupee(snap.FiftyTwoWeekHigh))

	fmt.Fprintf(&b, "\n---\n\n**Technical Verdict: %s**\n", strings.ToUpper(verdict))

	if len(flags.Warnings) > 0 {
		b.WriteString("\n---\n\n**RISK WARNINGS**\n\n")
		for _, w := range flags.Warnings {
			b.WriteString(w + "\n\n")
		}
	} else {
		b.WriteString("\n**No major risk flags detected**\n")
	}

	return b.String()
}
