package tfidf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
	"github.com/custodia-labs/vista/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.PolicyIndex = (*Index)(nil)

// snapshot is one immutable corpus generation.
type snapshot struct {
	generation int64
	vectorizer *vectorizer
	matrix     []sparseVector
	chunks     []domain.Chunk
	weights    []float64
}

// Index is a TF-IDF PolicyIndex safe for concurrent Build and Search.
type Index struct {
	current    atomic.Pointer[snapshot]
	generation atomic.Int64
}

// New creates an empty, not-ready index.
func New() *Index {
	return &Index{}
}

// Build fits a new vector space over chunks and publishes it as the next
// generation. An empty input clears the index but still counts as one.
func (i *Index) Build(ctx context.Context, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(chunks) == 0 {
		i.current.Store(nil)
		logger.Debug("Index generation %d cleared: no chunks", i.generation.Add(1))
		return nil
	}

	owned := make([]domain.Chunk, len(chunks))
	copy(owned, chunks)

	texts := make([]string, len(owned))
	weights := make([]float64, len(owned))
	for n := range owned {
		texts[n] = owned[n].Text
		weights[n] = owned[n].RetrievalWeight()
	}

	v, matrix := fit(texts)
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := &snapshot{
		generation: i.generation.Add(1),
		vectorizer: v,
		matrix:     matrix,
		chunks:     owned,
		weights:    weights,
	}
	i.current.Store(snap)

	logger.Debug("Index generation %d: %d chunks, %d terms", snap.generation, len(owned), v.size())
	return nil
}

// Search ranks every chunk by weighted cosine similarity to query.
func (i *Index) Search(ctx context.Context, query string, k int) ([]domain.Hit, error) {
	snap := i.current.Load()
	if strings.TrimSpace(query) == "" || snap == nil || len(snap.chunks) == 0 {
		return []domain.Hit{}, nil
	}
	if k < 1 {
		return nil, fmt.Errorf("search k=%d: %w", k, domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, err := snap.vectorizer.transform(query)
	if err != nil {
		return nil, fmt.Errorf("transform query: %w", err)
	}

	order := make([]int, len(snap.chunks))
	scores := make([]float64, len(snap.chunks))
	for n, row := range snap.matrix {
		order[n] = n
		scores[n] = q.dot(row) * snap.weights[n]
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}

	hits := make([]domain.Hit, k)
	for n := 0; n < k; n++ {
		idx := order[n]
		hits[n] = domain.Hit{Chunk: snap.chunks[idx], Score: scores[idx]}
	}
	return hits, nil
}

// Ready reports whether a non-empty corpus is published.
func (i *Index) Ready() bool {
	snap := i.current.Load()
	return snap != nil && snap.vectorizer != nil && len(snap.chunks) > 0
}

// Len returns the number of chunks in the current generation.
func (i *Index) Len() int {
	if snap := i.current.Load(); snap != nil {
		return len(snap.chunks)
	}
	return 0
}

// Generation returns the number of the last published generation, or 0
// before the first Build.
func (i *Index) Generation() int64 {
	if snap := i.current.Load(); snap != nil {
		return snap.generation
	}
	return i.generation.Load()
}
