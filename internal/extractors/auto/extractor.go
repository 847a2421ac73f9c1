// Package auto dispatches to a format-specific extractor by sniffing the
// first bytes of the input.
package auto

import (
	"bytes"
	"context"
	"fmt"

	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor routes PDFs, ZIP-based Word documents and everything else to
// the matching extractor.
type Extractor struct {
	pdf  driven.TextExtractor
	docx driven.TextExtractor
	text driven.TextExtractor
}

// New creates a sniffing extractor.
func New(pdf, docx, text driven.TextExtractor) *Extractor {
	return &Extractor{pdf: pdf, docx: docx, text: text}
}

// Name identifies the extractor.
func (e *Extractor) Name() string { return "auto" }

// Extract sniffs data and delegates.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	target := e.pick(data)
	if target == nil {
		return nil, fmt.Errorf("no extractor configured for this input")
	}
	logger.Debug("auto extractor: using %s", target.Name())
	return target.Extract(ctx, data)
}

func (e *Extractor) pick(data []byte) driven.TextExtractor {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return e.pdf
	case bytes.HasPrefix(data, zipMagic):
		return e.docx
	default:
		return e.text
	}
}
