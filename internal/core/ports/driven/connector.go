package driven

import (
	"context"

	"github.com/custodia-labs/vista/internal/core/domain"
)

// Connector reads policy documents from a location.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// Validate checks the location is usable. A missing location is reported
	// here but Load still succeeds with no documents.
	Validate(ctx context.Context) error

	// Load returns every document, sorted by name.
	Load(ctx context.Context) ([]domain.RawDocument, error)

	// Watch emits a change event whenever a document is created, updated
	// or deleted. The channel closes when ctx is done or the connector closes.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases resources.
	Close() error
}
