package research

import (
	"context"
	"fmt"
	"strings"
)

const (
	keySector          = "sector"
	keyGeneralOverview = "general_overview"
)

func sectorSeedKeys() []string {
	return []string{keyQuery, keySector, keyCurrentDate}
}

// sectorStages assembles the four-stage sector workflow.
func sectorStages(d deps, sector string) []Stage {
	return []Stage{
		sectorOverviewStage(d, sector),
		sectorSentimentStage(d, sector),
		sectorTechnicalStage(d, sector),
		sectorSuggestionStage(d, sector),
	}
}

func sectorOverviewStage(d deps, sector string) Stage {
	return Stage{
		Name:        "general_overview",
		Title:       "General Overview",
		Writes:      []string{keyGeneralOverview},
		Placeholder: fmt.Sprintf("General overview for %s sector is currently unavailable.", sector),
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			material := collectNews(ctx, d.news, []string{
				fmt.Sprintf("%s sector India latest news", sector),
			}, 5)
			material += collectWeb(ctx, d.web, []string{
				fmt.Sprintf("%s sector India trends growth outlook", sector),
			}, 5)
			if material == "" {
				return nil, fmt.Errorf("no overview material found for %s sector", sector)
			}

			prompt := fmt.Sprintf(`Recent news and analysis about the %s sector in India:

%s

Write a general overview of this sector for a retail investor: what is driving it right now, the main growth trends, and the headwinds. 4-6 sentences.`, sector, material)

			overview, err := d.narrative.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return map[string]string{keyGeneralOverview: overview}, nil
		},
	}
}

func sectorSentimentStage(d deps, sector string) Stage {
	return Stage{
		Name:        "investor_sentiment",
		Title:       "Investor Sentiment",
		Reads:       []string{keyGeneralOverview},
		Writes:      []string{keyInvestorSentiment},
		Placeholder: "Investor sentiment data not available.",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			material := collectWeb(ctx, d.web, []string{
				fmt.Sprintf("%s sector India investor sentiment analyst outlook", sector),
			}, 5)
			if material == "" {
				return nil, fmt.Errorf("no sentiment material found for %s sector", sector)
			}

			overview := rc.GetString(keyGeneralOverview)
			if len(overview) > 500 {
				overview = overview[:500]
			}

			prompt := fmt.Sprintf(`Sector context: %s

Analyst and investor material for the %s sector in India:

%s

Summarize in 3-5 sentences how analysts and institutional investors currently view this sector: bullish, bearish or mixed, and why.`, overview, sector, material)

			sentiment, err := d.narrative.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return map[string]string{keyInvestorSentiment: sentiment}, nil
		},
	}
}

func sectorTechnicalStage(d deps, sector string) Stage {
	return Stage{
		Name:        "technical_analysis",
		Title:       "Technical Analysis",
		Reads:       []string{keyGeneralOverview, keyInvestorSentiment},
		Writes:      []string{keyTechnicalAnalysis},
		Placeholder: "Sector technical analysis not available.",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			material := collectWeb(ctx, d.web, []string{
				fmt.Sprintf("%s sector India P/E ratio valuation overvalued undervalued", sector),
				fmt.Sprintf("%s sector India risks challenges", sector),
			}, 3)
			if material == "" {
				return nil, fmt.Errorf("no valuation material found for %s sector", sector)
			}

			prompt := fmt.Sprintf(`Sector context: %s

Investor sentiment: %s

Valuation and risk material for the %s sector in India:

%s

Summarize the sector's valuation picture in 3-5 sentences: typical P/E levels versus history, whether the sector looks overvalued or undervalued, and the main risks. Use the word "overvalued" only if the material supports it.`,
				clip(rc.GetString(keyGeneralOverview), 500),
				clip(rc.GetString(keyInvestorSentiment), 500),
				sector, material)

			analysis, err := d.narrative.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}

			if strings.Contains(strings.ToLower(analysis), "overvalued") {
				analysis += "\n\n**RISK WARNING**: Sector appears overvalued. Be selective with entry prices."
			}
			return map[string]string{keyTechnicalAnalysis: analysis}, nil
		},
	}
}

func sectorSuggestionStage(d deps, sector string) Stage {
	return Stage{
		Name:        "investment_suggestion",
		Title:       "Investment Suggestion",
		Reads:       []string{keyGeneralOverview, keyInvestorSentiment, keyTechnicalAnalysis},
		Writes:      []string{keyInvestmentSuggestion},
		Placeholder: "A sector investment suggestion could not be generated. This is not financial advice; please do your own research.",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			material := collectWeb(ctx, d.web, []string{
				fmt.Sprintf("top %s companies India NSE BSE listed stocks best", sector),
			}, 5)

			prompt := fmt.Sprintf(`You are an investment advisor covering Indian equities.

=== SECTOR OVERVIEW ===
%s

=== INVESTOR SENTIMENT ===
%s

=== VALUATION & RISKS ===
%s

=== LISTED COMPANIES MATERIAL ===
%s

Give an investment suggestion for the %s sector in India: whether to add exposure now, which 3-5 listed companies look strongest based on the material, and what a cautious entry approach would be.

Close with: "This is not financial advice. Please consult a SEBI-registered advisor and do your own research before investing."`,
				rc.GetString(keyGeneralOverview), rc.GetString(keyInvestorSentiment),
				rc.GetString(keyTechnicalAnalysis), material, sector)

			suggestion, err := d.narrative.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return map[string]string{keyInvestmentSuggestion: suggestion}, nil
		},
	}
}
