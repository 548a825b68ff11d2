package symbols

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// QueryKind distinguishes single-company queries from sector-level ones.
type QueryKind string

const (
	KindCompany QueryKind = "company"
	KindSector  QueryKind = "sector"
)

// Classification is the routing decision for one query.
type Classification struct {
	Kind       QueryKind `json:"type"`
	Entity     string    `json:"entity"`
	Confidence float64   `json:"confidence"`
}

// UseSectorPipeline reports whether the query should take the sector route.
// Low-confidence sector guesses fall back to the company pipeline.
func (c Classification) UseSectorPipeline() bool {
	return c.Kind == KindSector && c.Confidence > 0.7
}

var titleCaser = cases.Title(language.English)

// Classify decides whether a query targets a company or a sector.
//
// Known company names win outright. A sector keyword counts only when the
// query phrases it at the sector level ("defence shares", "invest in
// banking"); a bare keyword mention is not enough. Anything else defaults
// to a low-confidence company classification with no entity.
func (t *Tables) Classify(query string) Classification {
	queryLower := strings.ToLower(query)

	for _, company := range t.companyIndicators {
		if strings.Contains(queryLower, company) {
			return Classification{
				Kind:       KindCompany,
				Entity:     titleCaser.String(company),
				Confidence: 0.9,
			}
		}
	}

	for _, sector := range t.sectors {
		for _, keyword := range sector.Keywords {
			if !strings.Contains(queryLower, keyword) {
				continue
			}
			patterns := []string{
				fmt.Sprintf("%s share", keyword),
				fmt.Sprintf("%s shares", keyword),
				fmt.Sprintf("%s stock", keyword),
				fmt.Sprintf("%s stocks", keyword),
				fmt.Sprintf("%s sector", keyword),
				fmt.Sprintf("%s industry", keyword),
				fmt.Sprintf("buy %s", keyword),
				fmt.Sprintf("invest in %s", keyword),
				fmt.Sprintf("%s companies", keyword),
			}
			for _, pattern := range patterns {
				if strings.Contains(queryLower, pattern) {
					return Classification{
						Kind:       KindSector,
						Entity:     sector.Name,
						Confidence: 0.85,
					}
				}
			}
		}
	}

	return Classification{
		Kind:       KindCompany,
		Entity:     "",
		Confidence: 0.5,
	}
}
