package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vista/internal/core/domain"
)

type stubNormaliser struct {
	types []string
	title string
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.types }

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	return &domain.Document{Source: raw.Source, Title: s.title}, nil
}

func TestRegistry_Dispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{types: []string{"text/markdown"}, title: "md"})
	r.Register(&stubNormaliser{types: []string{"text/plain"}, title: "txt"})

	doc, err := r.Normalise(context.Background(), &domain.RawDocument{Source: "a", MIMEType: "TEXT/Markdown"})
	require.NoError(t, err)
	assert.Equal(t, "md", doc.Title)

	doc, err = r.Normalise(context.Background(), &domain.RawDocument{Source: "b", MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "txt", doc.Title)
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{types: []string{"text/plain"}, title: "first"})
	r.Register(&stubNormaliser{types: []string{"text/plain"}, title: "second"})

	doc, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "second", doc.Title)
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "application/pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	r.SetFallback(&stubNormaliser{title: "fallback"})
	doc, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", doc.Title)
}

func TestRegistry_NilInput(t *testing.T) {
	_, err := NewDefaultRegistry().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, []string{"text/markdown", "text/plain", "text/x-markdown"}, r.SupportedMIMETypes())

	doc, err := r.Normalise(context.Background(), &domain.RawDocument{
		Source:   "leave",
		URI:      "/p/leave.md",
		MIMEType: "text/markdown",
		Content:  []byte("---\ntitle: Leave Policy\n---\n## Annual\nBook early.\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Leave Policy", doc.Title)
	assert.Contains(t, doc.Body, "Book early.")
}
