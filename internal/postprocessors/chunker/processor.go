// Package chunker splits policy documents into section-tagged, bounded,
// overlapping chunks.
package chunker

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkMaxLen

// DefaultChunkOverlap is the default number of characters shared by
// consecutive chunks of one paragraph.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// Heading markers recognised at the start of a line.
const (
	titlePrefix   = "# "
	sectionPrefix = "## "
)

// chunkNamespace seeds deterministic chunk IDs.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://custodia-labs.dev/vista/chunk"))

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits document bodies by section and paragraph, then by size.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the maximum chunk length in characters.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the overlap between consecutive chunks in characters.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process partitions the document body into chunks.
//
// "# " lines are titles and skipped. "## " lines open a new section.
// Blank lines end a paragraph. Each paragraph is whitespace-normalised and
// split by size; every piece inherits the document's citation metadata.
func (p *Processor) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		chunks  []domain.Chunk
		buf     []string
		section = domain.DefaultSection
		title   = doc.DisplayTitle()
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		paragraph := strings.Join(buf, " ")
		for _, piece := range SplitBySize(paragraph, p.chunkSize, p.overlap) {
			position := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:          chunkID(doc.Source, position),
				Text:        piece,
				Source:      doc.Source,
				SourceTitle: title,
				Section:     section,
				IsCatalog:   doc.IsCatalog,
				Weight:      doc.Weight,
				Position:    position,
			})
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(doc.Body, "\n") {
		switch {
		case strings.HasPrefix(line, titlePrefix):
			continue
		case strings.HasPrefix(line, sectionPrefix):
			flush()
			section = strings.TrimSpace(strings.TrimPrefix(line, sectionPrefix))
		case strings.TrimSpace(line) == "":
			flush()
		default:
			buf = append(buf, strings.TrimSpace(line))
		}
	}
	flush()

	return chunks, nil
}

func chunkID(source string, position int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(source+"#"+strconv.Itoa(position))).String()
}
