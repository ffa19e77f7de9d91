package driven

import (
	"context"

	"github.com/custodia-labs/vista/internal/core/domain"
)

// PolicyIndex owns the current chunk corpus and its vector-space representation.
//
// Build replaces the whole corpus atomically: a concurrent Search observes
// either the previous generation or the new one, never a mix.
type PolicyIndex interface {
	// Build replaces the corpus. An empty input leaves the index not ready.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to k hits in strictly descending score order,
	// ties broken by corpus order. An empty query or a not-ready index
	// yields an empty result and no error.
	Search(ctx context.Context, query string, k int) ([]domain.Hit, error)

	// Ready reports whether a non-empty corpus has been built.
	Ready() bool

	// Len returns the number of chunks in the current generation.
	Len() int

	// Generation numbers successful builds from 1, including empty ones.
	Generation() int64
}
