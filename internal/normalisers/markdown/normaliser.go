// Package markdown provides the normaliser for markdown policy documents.
package markdown

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
	"github.com/custodia-labs/vista/internal/logger"
	"github.com/custodia-labs/vista/internal/normalisers/frontmatter"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents with optional front matter.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Normalise parses the front matter and resolves the catalog flag and
// retrieval weight. The body keeps its heading markers for the chunker.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := raw.Source
	if source == "" {
		source = sourceFromURI(raw.URI)
	}

	fm, body := frontmatter.Parse(string(raw.Content))
	if !fm.Parsed && strings.HasPrefix(string(raw.Content), frontmatter.Marker) {
		logger.Warn("Front matter in %s not recognised, using whole text as body", source)
	}

	title := fm.String(domain.MetaTitle)

	var explicit *float64
	if fm.Has(domain.MetaRetrievalWeight) {
		switch w, ok := fm.Float(domain.MetaRetrievalWeight); {
		case ok && w > 0:
			explicit = &w
		case ok:
			logger.Warn("Ignoring non-positive retrieval_weight %v in %s", w, source)
		default:
			logger.Warn("Ignoring non-numeric retrieval_weight %q in %s",
				fm.String(domain.MetaRetrievalWeight), source)
		}
	}

	doc := &domain.Document{
		Source:    source,
		URI:       raw.URI,
		Title:     title,
		IsCatalog: domain.ResolveCatalog(fm.Truthy(domain.MetaIsCatalog), title),
		Weight:    domain.ResolveWeight(explicit, title),
		Body:      body,
		Metadata:  fm.Values,
	}

	logger.Debug("Normalised %s: title=%q catalog=%t weight=%.2f front_matter=%t",
		source, doc.DisplayTitle(), doc.IsCatalog, doc.Weight, fm.Parsed)

	return doc, nil
}

// sourceFromURI returns the filename stem of a URI.
func sourceFromURI(uri string) string {
	name := filepath.Base(uri)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
