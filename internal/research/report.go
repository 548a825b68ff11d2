package research

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Section is one titled block of the composite report.
type Section struct {
	Title string
	Body  string
}

// companySections reads the seven company sections out of the run context
// in their fixed report order.
func companySections(rc *Context) []Section {
	return []Section{
		{"Company Introduction", sectionBody(rc, keyCompanyIntro, "Company information not available.")},
		{"Sector Analysis", sectionBody(rc, keySectorAnalysis, "Sector analysis not available.")},
		{"Company Research", sectionBody(rc, keyCompanyResearch, "Company research not available.")},
		{"Policy Analysis", sectionBody(rc, keyPolicyAnalysis, "No major policy impacts identified.")},
		{"Investor Sentiment", sectionBody(rc, keyInvestorSentiment, "Sentiment data not available.")},
		{"Technical Analysis & Risk Check", sectionBody(rc, keyTechnicalAnalysis, "Technical analysis not available.")},
		{"Investment Suggestion", sectionBody(rc, keyInvestmentSuggestion, "Investment suggestion not available.")},
	}
}

// sectorSections reads the four sector sections in report order.
func sectorSections(rc *Context) []Section {
	return []Section{
		{"General Overview", sectionBody(rc, keyGeneralOverview, "General overview not available.")},
		{"Investor Sentiment", sectionBody(rc, keyInvestorSentiment, "Sentiment data not available.")},
		{"Technical Analysis", sectionBody(rc, keyTechnicalAnalysis, "Technical analysis not available.")},
		{"Investment Suggestion", sectionBody(rc, keyInvestmentSuggestion, "Investment suggestion not available.")},
	}
}

func sectionBody(rc *Context, key, fallback string) string {
	if body := strings.TrimSpace(rc.GetString(key)); body != "" {
		return body
	}
	return fallback
}

// composeReport lays the sections out under a single heading, each block
// separated by a rule so the report reads the same every run.
func composeReport(heading string, sections []Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", heading)
	for _, s := range sections {
		fmt.Fprintf(&b, "\n---\n\n## %s\n\n%s\n", s.Title, s.Body)
	}
	return b.String()
}

func companyReport(company string, rc *Context) string {
	return composeReport(fmt.Sprintf("Complete Stock Analysis: %s", company), companySections(rc))
}

func sectorReport(sector string, rc *Context) string {
	return composeReport(fmt.Sprintf("%s Sector Analysis", sector), sectorSections(rc))
}

// saveReport writes the report under dir as <entity>_<timestamp>.md and
// returns the path.
func saveReport(dir, entity, report string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.md", sanitizeFilename(entity), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func sanitizeFilename(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "analysis"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "analysis"
	}
	return b.String()
}
