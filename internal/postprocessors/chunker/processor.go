// Package chunker splits document content into fixed-size overlapping windows.
package chunker

import (
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content into fixed-size chunks.
// Sizes count runes, so multi-byte text is never cut mid-character.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
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

// Split cuts the document content into chunks numbered from zero.
// Empty content produces no chunks.
func (p *Processor) Split(doc *domain.Document) []domain.Chunk {
	if doc == nil || doc.Content == "" {
		return nil
	}

	content := []rune(doc.Content)
	step := p.chunkSize - p.overlap
	chunks := make([]domain.Chunk, 0, len(content)/step+1)

	for start := 0; start < len(content); start += step {
		end := min(start+p.chunkSize, len(content))
		chunks = append(chunks, domain.Chunk{
			DocumentID: doc.ID,
			Content:    string(content[start:end]),
			Position:   len(chunks),
		})
		if end == len(content) {
			break
		}
	}

	return chunks
}
