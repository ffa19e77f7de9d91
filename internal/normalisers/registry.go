package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
	"github.com/custodia-labs/vista/internal/normalisers/markdown"
	"github.com/custodia-labs/vista/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps MIME types to normalisers.
type Registry struct {
	mu       sync.RWMutex
	byMIME   map[string]driven.Normaliser
	fallback driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byMIME: make(map[string]driven.Normaliser)}
}

// NewDefaultRegistry returns a registry with the Markdown and plain text
// normalisers, using plain text for anything else.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	text := plaintext.New()
	r.Register(text)
	r.Register(markdown.New())
	r.SetFallback(text)
	return r
}

// Register adds a normaliser for each of its MIME types.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mt := range n.SupportedMIMETypes() {
		r.byMIME[strings.ToLower(mt)] = n
	}
}

// SetFallback sets the normaliser used for unregistered MIME types.
func (r *Registry) SetFallback(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = n
}

// SupportedMIMETypes returns the registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.byMIME))
	for mt := range r.byMIME {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

// Normalise dispatches raw to the normaliser for its MIME type.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	n, ok := r.byMIME[strings.ToLower(raw.MIMEType)]
	if !ok {
		n = r.fallback
	}
	r.mu.RUnlock()

	if n == nil {
		return nil, fmt.Errorf("no normaliser for %q: %w", raw.MIMEType, domain.ErrInvalidInput)
	}
	return n.Normalise(ctx, raw)
}
