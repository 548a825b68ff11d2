package research

import (
	"context"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/models"
	"github.com/Ankur-Sura/Nivesh-Copilot/internal/snapshot"
)

// Narrative generates prose or typed JSON from a prompt.
type Narrative interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string, out interface{}) error
}

// WebSearcher runs general web searches.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}

// NewsSearcher runs news searches.
type NewsSearcher interface {
	SearchNews(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}

// SnapshotBuilder sources the two-tier technical snapshot. The research
// argument carries upstream narrative findings into the extraction tier.
type SnapshotBuilder interface {
	Build(ctx context.Context, company, ticker, research string) *snapshot.Result
}

// deps bundles the collaborators the stage constructors share.
type deps struct {
	narrative Narrative
	web       WebSearcher
	news      NewsSearcher
	snapshots SnapshotBuilder
}

// searchDigest renders results into prompt material, "- Title: Snippet"
// per line. Empty input yields an empty digest.
func searchDigest(results []models.SearchResult) string {
	digest := ""
	for _, r := range results {
		digest += "- " + r.Title + ": " + r.Snippet + "\n"
	}
	return digest
}
