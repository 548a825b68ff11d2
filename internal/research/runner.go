package research

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/symbols"
)

// Runner routes a query to the company or sector workflow and drives the
// pipeline end to end. The only way a run fails outright is an empty
// query; everything downstream degrades section by section.
type Runner struct {
	tables     *symbols.Tables
	d          deps
	resultsDir string
}

// NewRunner wires the runner. resultsDir may be empty to skip saving
// reports to disk.
func NewRunner(narrative Narrative, web WebSearcher, news NewsSearcher, snapshots SnapshotBuilder, resultsDir string) *Runner {
	return &Runner{
		tables: symbols.DefaultTables(),
		d: deps{
			narrative: narrative,
			web:       web,
			news:      news,
			snapshots: snapshots,
		},
		resultsDir: resultsDir,
	}
}

// Result is the outcome of one research run.
type Result struct {
	Query      string
	Kind       symbols.QueryKind
	Entity     string
	Ticker     string
	Sections   []Section
	Report     string
	ReportPath string
	Stages     []StageStatus
}

// Run classifies the query, resolves the entity, executes the matching
// pipeline and assembles the fixed-order report.
func (r *Runner) Run(ctx context.Context, query, explicitEntity string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	cls := r.tables.Classify(query)
	log.Printf("[research] query classified as %s (%q, confidence %.2f)", cls.Kind, cls.Entity, cls.Confidence)

	if cls.UseSectorPipeline() {
		return r.runSector(ctx, query, cls)
	}
	return r.runCompany(ctx, query, explicitEntity, cls)
}

func (r *Runner) runCompany(ctx context.Context, query, explicitEntity string, cls symbols.Classification) (*Result, error) {
	company := r.companyName(ctx, query, explicitEntity, cls)
	ticker := r.tables.ResolveTicker(company)
	log.Printf("[research] company %q resolved to ticker %q", company, ticker)

	pipeline, err := NewPipeline(companySeedKeys(), companyStages(r.d, company))
	if err != nil {
		return nil, err
	}

	report, err := pipeline.Execute(ctx, map[string]string{
		keyQuery:       query,
		keyCompanyName: company,
		keyTicker:      ticker,
		keyCurrentDate: time.Now().Format("January 2, 2006"),
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Query:    query,
		Kind:     symbols.KindCompany,
		Entity:   company,
		Ticker:   ticker,
		Sections: companySections(report.Context),
		Stages:   report.Stages,
	}
	res.Report = companyReport(company, report.Context)
	r.save(res)
	return res, nil
}

func (r *Runner) runSector(ctx context.Context, query string, cls symbols.Classification) (*Result, error) {
	sector := cls.Entity
	log.Printf("[research] routing to sector analysis for %q", sector)

	pipeline, err := NewPipeline(sectorSeedKeys(), sectorStages(r.d, sector))
	if err != nil {
		return nil, err
	}

	report, err := pipeline.Execute(ctx, map[string]string{
		keyQuery:       query,
		keySector:      sector,
		keyCurrentDate: time.Now().Format("January 2, 2006"),
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Query:    query,
		Kind:     symbols.KindSector,
		Entity:   sector,
		Sections: sectorSections(report.Context),
		Stages:   report.Stages,
	}
	res.Report = sectorReport(sector, report.Context)
	r.save(res)
	return res, nil
}

func (r *Runner) save(res *Result) {
	if r.resultsDir == "" {
		return
	}
	path, err := saveReport(r.resultsDir, res.Entity, res.Report)
	if err != nil {
		log.Printf("[research] saving report failed: %v", err)
		return
	}
	res.ReportPath = path
}

// companyName settles the company under analysis: an explicit name wins,
// then a confident classifier hit, then narrative extraction, and finally
// a stop-word heuristic over the raw query.
func (r *Runner) companyName(ctx context.Context, query, explicitEntity string, cls symbols.Classification) string {
	if explicitEntity != "" {
		return explicitEntity
	}
	if cls.Entity != "" {
		return cls.Entity
	}
	if name := r.extractCompanyName(ctx, query); name != "" {
		return name
	}
	return heuristicCompanyName(query)
}

func (r *Runner) extractCompanyName(ctx context.Context, query string) string {
	if r.d.narrative == nil {
		return ""
	}

	prompt := `Extract the INDIAN company or stock name from this query:
"` + query + `"

This is for INDIAN stocks only (NSE/BSE). Return the FULL INDIAN company name.

Examples:
- "Tell me about Reliance stock" -> Reliance Industries Limited
- "Tata Motors analysis" -> Tata Motors Limited
- "How is HDFC Bank doing" -> HDFC Bank Limited
- "HAL stock" -> Hindustan Aeronautics Limited (NOT Halliburton)
- "BEL share" -> Bharat Electronics Limited
- "SBI stock" -> State Bank of India

Rules: HAL = Hindustan Aeronautics Limited, BEL = Bharat Electronics Limited, SAIL = Steel Authority of India Limited, ONGC = Oil and Natural Gas Corporation, BHEL = Bharat Heavy Electricals Limited.

Return ONLY the full Indian company name, nothing else. If no specific company is mentioned, return "Unknown".`

	name, err := r.d.narrative.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[research] company name extraction failed: %v", err)
		return ""
	}
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	if name == "" || strings.EqualFold(name, "unknown") {
		return ""
	}
	return name
}

var queryStopWords = map[string]bool{
	"tell": true, "me": true, "about": true, "what": true, "is": true,
	"the": true, "stock": true, "share": true, "suggest": true, "how": true,
	"future": true, "price": true, "analysis": true, "give": true,
	"show": true, "check": true, "find": true, "get": true, "of": true,
	"for": true, "a": true, "an": true,
}

// heuristicCompanyName keeps the first two non-stop-words of the query,
// capitalized. Last resort when extraction is unavailable.
func heuristicCompanyName(query string) string {
	var kept []string
	for _, word := range strings.Fields(query) {
		trimmed := strings.Trim(word, "?.,!")
		if len(trimmed) <= 2 || queryStopWords[strings.ToLower(trimmed)] {
			continue
		}
		kept = append(kept, capitalize(trimmed))
		if len(kept) == 2 {
			break
		}
	}
	if len(kept) == 0 {
		return query
	}
	return strings.Join(kept, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
