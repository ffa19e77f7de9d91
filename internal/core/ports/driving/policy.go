package driving

import (
	"context"

	"github.com/custodia-labs/vista/internal/core/domain"
)

// ReloadStats summarises one corpus generation.
type ReloadStats struct {
	Generation int64 `json:"generation"`
	Documents  int   `json:"documents"`
	Catalogs   int   `json:"catalogs"`
	Chunks     int   `json:"chunks"`
}

// SourceInfo describes one loaded policy document.
type SourceInfo struct {
	Source    string  `json:"source"`
	Title     string  `json:"title"`
	URI       string  `json:"uri"`
	IsCatalog bool    `json:"is_catalog"`
	Weight    float64 `json:"weight"`
	Chunks    int     `json:"chunks"`
}

// PolicyService provides policy retrieval and grounding to external actors.
type PolicyService interface {
	// Reload re-reads the policy directory and swaps in a new index generation.
	Reload(ctx context.Context) (ReloadStats, error)

	// Search returns the top hits for a query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.Hit, error)

	// Ground searches and applies the grounding policy.
	Ground(ctx context.Context, query string, strict bool) (*domain.GroundingDecision, error)

	// Brief grounds the query and renders the context for a text generator.
	Brief(ctx context.Context, query string, strict bool) (*domain.Briefing, error)

	// Sources lists the documents of the current generation.
	Sources(ctx context.Context) ([]SourceInfo, error)

	// Ready reports whether the index holds a non-empty corpus.
	Ready() bool

	// Watch reloads whenever the policy directory changes, until ctx is
	// done. Reload failures are logged, not returned.
	Watch(ctx context.Context) error
}
