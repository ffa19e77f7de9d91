// Package plaintext provides the normaliser for plain text policy documents.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents. Plain text has no front matter,
// so the title comes from the filename and the weight is the default.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// Normalise converts a raw document to a document whose body is the full text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := raw.Source
	if source == "" {
		source = strings.TrimSuffix(filepath.Base(raw.URI), filepath.Ext(raw.URI))
	}

	title := extractTitle(source)

	return &domain.Document{
		Source:    source,
		URI:       raw.URI,
		Title:     title,
		IsCatalog: domain.ResolveCatalog(false, title),
		Weight:    domain.ResolveWeight(nil, title),
		Body:      string(raw.Content),
		Metadata:  map[string]any{},
	}, nil
}

// extractTitle turns a filename stem into a human-readable title.
func extractTitle(stem string) string {
	stem = strings.ReplaceAll(stem, "_", " ")
	return strings.ReplaceAll(stem, "-", " ")
}
