package driven

import "context"

// TextExtractor turns raw document bytes into plain text.
type TextExtractor interface {
	// Extract returns the text of the document.
	// Implementations return an error for unreadable or malformed input;
	// the ingestion pipeline classifies it as domain.ErrExtraction.
	Extract(ctx context.Context, data []byte) (*ExtractResult, error)

	// Name identifies the extractor in logs and configuration.
	Name() string
}

// ExtractResult is the output of text extraction.
type ExtractResult struct {
	// Text is the extracted content, pages separated by newlines.
	Text string

	// PageCount is the number of pages, or 0 when unknown.
	PageCount int
}
