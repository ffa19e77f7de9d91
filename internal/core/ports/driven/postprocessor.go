package driven

import (
	"context"

	"github.com/custodia-labs/vista/internal/core/domain"
)

// Chunker splits a normalised document into retrievable chunks.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Process returns the chunks of the document in document order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
