package driven

import (
	"context"

	"github.com/custodia-labs/vista/internal/core/domain"
)

// Normaliser transforms a raw policy file into a Document.
// Each normaliser handles specific MIME types.
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Normalise parses the raw document. Malformed metadata is not an error:
	// the whole text becomes the body.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}

// NormaliserRegistry selects the normaliser for a document by MIME type.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the matching normaliser.
	// Unknown MIME types fall back to the fallback normaliser if one is set.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Register adds a normaliser. Later registrations win for shared types.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}
