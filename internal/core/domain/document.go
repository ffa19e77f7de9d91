package domain

import "strings"

// DefaultSection is the section name used for text that precedes any
// second-level heading.
const DefaultSection = "Intro"

// DefaultRetrievalWeight is the weight of a document with no explicit
// retrieval_weight and no catalog-like title.
const DefaultRetrievalWeight = 1.0

// CatalogRetrievalWeight is the weight applied to documents whose title
// suggests a catalog when no retrieval_weight is set explicitly.
// Reference material ranks below narrative policy by default.
const CatalogRetrievalWeight = 0.6

// Front-matter keys understood by the document model.
const (
	MetaTitle           = "title"
	MetaIsCatalog       = "is_catalog"
	MetaRetrievalWeight = "retrieval_weight"
)

// Document is a policy document after normalisation.
// Documents are read once per load cycle and never mutated afterwards.
type Document struct {
	// Source is the stable key of the document, e.g. the filename stem.
	Source string

	// URI is the original location of the document.
	URI string

	// Title is the display name. Falls back to Source when unset.
	Title string

	// IsCatalog marks reference/enumerative documents.
	IsCatalog bool

	// Weight is the effective retrieval weight for every chunk of the document.
	Weight float64

	// Body is the document text with any front-matter block removed.
	Body string

	// Metadata holds every parsed front-matter value, including unknown keys.
	Metadata map[string]any
}

// Chunk is the atomic retrievable unit of policy text.
// Chunks are created by a build pass and are replaced wholesale on rebuild.
type Chunk struct {
	// ID is a deterministic identifier derived from Source and Position.
	ID string `json:"id"`

	// Text is the whitespace-normalised chunk content.
	Text string `json:"text"`

	// Source is the key of the parent Document.
	Source string `json:"source"`

	// SourceTitle is the display name of the parent Document.
	SourceTitle string `json:"source_title"`

	// Section is the heading the text appeared under.
	Section string `json:"section"`

	// IsCatalog is inherited from the parent Document.
	IsCatalog bool `json:"is_catalog"`

	// Weight is inherited from the parent Document.
	Weight float64 `json:"weight"`

	// Position is the ordinal of the chunk within its Document.
	Position int `json:"position"`
}

// RetrievalWeight returns the ranking multiplier of the chunk.
// A zero weight means unset and ranks as DefaultRetrievalWeight.
func (c *Chunk) RetrievalWeight() float64 {
	if c.Weight == 0 {
		return DefaultRetrievalWeight
	}
	return c.Weight
}

// LooksLikeCatalog reports whether a title suggests a catalog document.
// This is a heuristic: any case-insensitive occurrence of "catalog" counts.
func LooksLikeCatalog(title string) bool {
	return strings.Contains(strings.ToLower(title), "catalog")
}

// ResolveCatalog combines the explicit front-matter flag with the title heuristic.
func ResolveCatalog(explicit bool, title string) bool {
	return explicit || LooksLikeCatalog(title)
}

// ResolveWeight returns the effective retrieval weight of a document.
// A positive explicit weight always wins; otherwise catalog-like titles get
// CatalogRetrievalWeight and everything else DefaultRetrievalWeight.
func ResolveWeight(explicit *float64, title string) float64 {
	if explicit != nil && *explicit > 0 {
		return *explicit
	}
	if LooksLikeCatalog(title) {
		return CatalogRetrievalWeight
	}
	return DefaultRetrievalWeight
}

// DisplayTitle returns the title used for citations.
func (d *Document) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Source
}
