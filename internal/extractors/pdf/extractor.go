// Package pdf extracts text from PDF files in-process.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

// ErrNoText is returned when a PDF parses but holds no extractable text,
// which usually means it is a scanned image.
var ErrNoText = errors.New("no extractable text (scanned PDF? try ingestion.extractor = pdftotext)")

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads PDF text with github.com/ledongthuc/pdf.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor.
func (e *Extractor) Name() string { return "pdf" }

// Extract returns the text of every page, pages separated by newlines.
// Pages that fail to decode are skipped.
func (e *Extractor) Extract(ctx context.Context, data []byte) (res *driven.ExtractResult, err error) {
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	numPages := reader.NumPage()
	var text strings.Builder
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Debug("Skipping page %d: %v", i, err)
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	content := strings.TrimSpace(text.String())
	if content == "" {
		return nil, ErrNoText
	}

	return &driven.ExtractResult{Text: content, PageCount: numPages}, nil
}
