package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/risk"
)

// Context keys of the company workflow. Seed keys are written by the
// runner, the rest by the stage named after them.
const (
	keyQuery       = "query"
	keyCompanyName = "company_name"
	keyTicker      = "ticker"
	keyCurrentDate = "current_date"

	keyCompanyIntro         = "company_intro"
	keySectorAnalysis       = "sector_analysis"
	keyCompanyResearch      = "company_research"
	keyPolicyAnalysis       = "policy_analysis"
	keyInvestorSentiment    = "investor_sentiment"
	keyTechnicalAnalysis    = "technical_analysis"
	keyRiskFlags            = "risk_flags"
	keyInvestmentSuggestion = "investment_suggestion"
)

func companySeedKeys() []string {
	return []string{keyQuery, keyCompanyName, keyTicker, keyCurrentDate}
}

// companyStages assembles the seven-stage company workflow. Each stage
// degrades to its placeholder on failure, so the run always reaches the
// suggestion stage with every section present.
func companyStages(d deps, company string) []Stage {
	return []Stage{
		companyIntroStage(d, company),
		sectorAnalystStage(d, company),
		companyResearcherStage(d, company),
		policyWatchdogStage(d, company),
		investorSentimentStage(d, company),
		technicalAnalysisStage(d, company),
		investmentSuggestionStage(d, company),
	}
}

func companyIntroStage(d deps, company string) Stage {
	return Stage{
		Name:        "company_intro",
		Title:       "Company Introduction",
		Writes:      []string{keyCompanyIntro},
		Placeholder: "Company information not available.",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			queries := []string{
				fmt.Sprintf("%s company overview history headquarters India", company),
				fmt.Sprintf("%s business segments products services key activities", company),
				fmt.Sprintf("%s manufacturing plants offices locations India", company),
			}
			material := collectWeb(ctx, d.web, queries, 3)
			if material == "" {
				return nil, fmt.Errorf("no introduction material found for %s", company)
			}

			prompt := fmt.Sprintf(`Write a structured introduction of the Indian company %s using only the material below.

%s

Cover, in short labeled paragraphs: what the company does and its history, its main business segments and products, and where it operates (headquarters, plants, offices). Keep it factual and skip anything the material does not support.`, company, material)

			intro, err := d.narrative.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return map[string]string{keyCompanyIntro: intro}, nil
		},
	}
}

type sectorCall struct {
	Sector      string   `json:"sector"`
	SubSectors  []string `json:"sub_sectors"`
	SearchQuery string   `json:"search_query"`
}

func sectorAnalystStage(d deps, company string) Stage {
	return Stage{
		Name:        "sector_analyst",
		Title:       "Sector Analysis",
		Reads:       []string{keyCompanyIntro},
		Writes:      []string{keySectorAnalysis},
		Placeholder: "Sector analysis not available.",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			intro := rc.GetString(keyCompanyIntro)

			callPrompt := fmt.Sprintf(`Based on this introduction of %s:

%s

Identify the company's primary sector. Respond in JSON: {"sector": "<primary sector>", "sub_sectors": ["..."], "search_query": "<web query for current trends in that sector in India>"}`, company, intro)

			var call sectorCall
			if err := d.narrative.GenerateJSON(ctx, callPrompt, &call); err != nil {
				return nil, err
			}
			if call.Sector == "" {
				return nil, fmt.Errorf("sector identification returned no sector for %s", company)
			}

			query := call.SearchQuery
			if query == "" {
				query = fmt.Sprintf("%s sector India trends outlook", call.Sector)
			}
			material := collectWeb(ctx, d.web, []string{query}, 5)

			summaryPrompt := fmt.Sprintf(`%s operates in the %s sector (sub-sectors: %s).

Recent sector material:
%s

Summarize the state of this sector in India in 3-5 sentences: growth trends, tailwinds and headwinds relevant to an investor. Start the summary with "Sector: %s".`,
				company, call.Sector, strings.Join(call.SubSectors, ", "), material, call.Sector)

			summary, err := d.narrative.Generate(ctx, summaryPrompt)
			if err != nil {
				return nil, err
			}
			return map[string]string{keySectorAnalysis: summary}, nil
		},
	}
}

func companyResearcherStage(d deps, company string) Stage {
	return Stage{
		Name:        "company_researcher",
		Title:       "Company Research",
		Writes:      []string{keyCompanyResearch},
		Placeholder: "Could not research company",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			query := fmt.Sprintf("%s quarterly results news", company)

			material := collectNews(ctx, d.news, []string{query}, 5)
			material += collectWeb(ctx, d.web, []string{query}, 3)
			if material == "" {
				return nil, fmt.Errorf("no research material found for %s", company)
			}

			prompt := fmt.Sprintf(`Recent results and news for %s:

%s

Summarize the company's recent financial performance and notable news in 3-4 sentences. Begin with the line "**Company: %s**".`, company, material, company)

			research, err := d.narrative.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return map[string]string{keyCompanyResearch: research}, nil
		},
	}
}

func policyWatchdogStage(d deps, company string) Stage {
	return Stage{
		Name:        "policy_watchdog",
		Title:       "Policy Analysis",
		Reads:       []string{keySectorAnalysis},
		Writes:      []string{keyPolicyAnalysis},
		Placeholder: "No policy analysis available.",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			sector := sectorFromAnalysis(rc.GetString(keySectorAnalysis))

			material := collectNews(ctx, d.news, []string{
				fmt.Sprintf("government policy %s India", sector),
			}, 3)
			material += collectWeb(ctx, d.web, []string{
				fmt.Sprintf("%s government policy regulation news", company),
			}, 3)
			if material == "" {
				return nil, fmt.Errorf("no policy material found for %s", company)
			}

			prompt := fmt.Sprintf(`Policy and regulation material touching %s (sector: %s):

%s

Summarize in 3-4 sentences how current or upcoming Indian government policies and regulations affect this company. Note whether the net effect looks supportive, neutral or adverse.`, company, sector, material)

			analysis, err := d.narrative.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return map[string]string{keyPolicyAnalysis: analysis}, nil
		},
	}
}

// sectorFromAnalysis pulls the sector name out of the "Sector: X" lead of
// the sector analysis, falling back to the whole first line.
func sectorFromAnalysis(analysis string) string {
	line := analysis
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "Sector:"); i >= 0 {
		line = line[i+len("Sector:"):]
	}
	line = strings.Trim(strings.TrimSpace(line), ".*")
	if i := strings.IndexByte(line, '.'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "Indian industry"
	}
	return line
}

func investorSentimentStage(d deps, company string) Stage {
	return Stage{
		Name:        "investor_sentiment",
		Title:       "Investor Sentiment",
		Writes:      []string{keyInvestorSentiment},
		Placeholder: "Investor sentiment data not available.",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			queries := []string{
				fmt.Sprintf("%s stock investor sentiment analyst rating buy sell hold", company),
				fmt.Sprintf("%s FII DII shareholding pattern institutional investors", company),
				fmt.Sprintf("%s stock target price analyst recommendation India NSE BSE rupees", company),
			}
			material := collectWeb(ctx, d.web, queries, 3)
			if material == "" {
				return nil, fmt.Errorf("no sentiment material found for %s", company)
			}

			prompt := fmt.Sprintf(`Analyst and investor material for %s:

%s

Summarize in 3-5 sentences: the prevailing analyst stance (buy/sell/hold), institutional (FII/DII) positioning if mentioned, and any target prices in rupees. Keep every number exactly as the material states it.`, company, material)

			sentiment, err := d.narrative.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return map[string]string{keyInvestorSentiment: sentiment}, nil
		},
	}
}

func technicalAnalysisStage(d deps, company string) Stage {
	return Stage{
		Name:        "technical_analysis",
		Title:       "Technical Analysis & Risk Check",
		Reads:       []string{keyTicker, keyCompanyResearch, keyInvestorSentiment},
		Writes:      []string{keyTechnicalAnalysis, keyRiskFlags},
		Placeholder: "Technical analysis not available.",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			if d.snapshots == nil {
				return nil, fmt.Errorf("no snapshot builder wired")
			}

			background := strings.TrimSpace(
				clip(rc.GetString(keyCompanyResearch), 500) + "\n\n" +
					clip(rc.GetString(keyInvestorSentiment), 500))
			res := d.snapshots.Build(ctx, company, rc.GetString(keyTicker), background)
			flags := risk.Evaluate(res.Snapshot, res.NegativeNews, res.NegativeNewsSummary)
			verdict := risk.Verdict(res.Snapshot)

			summary := renderTechnicalSummary(company, res.Snapshot, flags, verdict)

			flagsJSON, err := json.Marshal(flags)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				keyTechnicalAnalysis: summary,
				keyRiskFlags:         string(flagsJSON),
			}, nil
		},
	}
}

func investmentSuggestionStage(d deps, company string) Stage {
	return Stage{
		Name:  "investment_suggestion",
		Title: "Investment Suggestion",
		Reads: []string{
			keyCurrentDate,
			keyCompanyIntro, keySectorAnalysis, keyCompanyResearch,
			keyPolicyAnalysis, keyInvestorSentiment, keyTechnicalAnalysis,
			keyRiskFlags,
		},
		Writes:      []string{keyInvestmentSuggestion},
		Placeholder: "A complete investment suggestion could not be generated. This is not financial advice; please do your own research.",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			var flags risk.Flags
			if err := json.Unmarshal([]byte(rc.GetString(keyRiskFlags)), &flags); err != nil {
				// A degraded technical stage leaves a placeholder here;
				// proceed with no flags rather than failing the stage.
				flags = risk.Flags{}
			}

			riskContext := riskContextLines(flags)
			if riskContext == "" {
				riskContext = "No major risk flags detected."
			}

			prompt := fmt.Sprintf(`You are a senior investment advisor with strict risk management, covering Indian equities.

Based on all the research below, provide a comprehensive investment suggestion for %s as of %s.

=== RISK FLAGS (must address) ===
%s

=== COMPANY INTRODUCTION ===
%s

=== SECTOR ANALYSIS ===
%s

=== COMPANY RESEARCH ===
%s

=== POLICY ANALYSIS ===
%s

=== INVESTOR SENTIMENT ===
%s

=== TECHNICAL ANALYSIS ===
%s

Rules:
1. If negative news was detected, recommend AVOID / DO NOT BUY.
2. If the stock is overbought, recommend WAIT for a correction before buying.
3. If the stock is in the speculative zone, recommend it only for aggressive investors with a stop-loss.
4. If the stock is oversold, it may be presented as a potential opportunity.

Structure the suggestion as:
**Action:** BUY / SELL / HOLD / WAIT
**Investment Horizon:** short-term, medium-term and long-term suitability with reasons
**Strategy:** guidance for conservative, moderate and aggressive investors
**Entry Strategy:** whether the current price level is a good entry
**Risk Factors to Watch:** three key risks
**Final Verdict:** 2-3 sentence conclusion

Close with a disclaimer that this is educational analysis, not financial advice, and that the reader should consult a SEBI-registered advisor.`,
				company, rc.GetString(keyCurrentDate), riskContext,
				rc.GetString(keyCompanyIntro), rc.GetString(keySectorAnalysis),
				rc.GetString(keyCompanyResearch), rc.GetString(keyPolicyAnalysis),
				rc.GetString(keyInvestorSentiment), rc.GetString(keyTechnicalAnalysis))

			suggestion, err := d.narrative.Generate(ctx, prompt)
			if err != nil {
				return nil, err
			}
			return map[string]string{keyInvestmentSuggestion: suggestion}, nil
		},
	}
}

// riskContextLines turns the deterministic flags into the imperative lines
// the suggestion prompt leads with. Order matters: the hardest warning
// comes first.
func riskContextLines(f risk.Flags) string {
	var lines []string
	if f.NegativeNews {
		lines = append(lines, "CRITICAL: NEGATIVE NEWS DETECTED - Must strongly warn against buying!")
	}
	if f.Overbought {
		lines = append(lines, "WARNING: Stock is OVERBOUGHT (RSI > 70) - Wait for correction!")
	}
	if f.Speculative {
		lines = append(lines, "ALERT: SPECULATIVE ZONE - High volatility, only for aggressive investors!")
	}
	if f.Oversold {
		lines = append(lines, "NOTE: Stock is OVERSOLD (RSI < 30) - Potential buying opportunity!")
	}
	return strings.Join(lines, "\n")
}

// clip bounds prompt material carried between stages.
func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func collectWeb(ctx context.Context, web WebSearcher, queries []string, perQuery int) string {
	if web == nil {
		return ""
	}
	material := ""
	for _, q := range queries {
		results, err := web.Search(ctx, q, perQuery)
		if err != nil {
			continue
		}
		material += searchDigest(results)
	}
	return material
}

func collectNews(ctx context.Context, news NewsSearcher, queries []string, perQuery int) string {
	if news == nil {
		return ""
	}
	material := ""
	for _, q := range queries {
		results, err := news.SearchNews(ctx, q, perQuery)
		if err != nil {
			continue
		}
		material += searchDigest(results)
	}
	return material
}
