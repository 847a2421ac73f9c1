// Package plaintext passes UTF-8 text through with normalised line endings.
package plaintext

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

// ErrNotText is returned for input that is not valid UTF-8.
var ErrNotText = errors.New("input is not UTF-8 text")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor.
func (e *Extractor) Name() string { return "plaintext" }

// Extract strips a byte-order mark and converts CRLF and CR to LF.
func (e *Extractor) Extract(_ context.Context, data []byte) (*driven.ExtractResult, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrNotText
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return &driven.ExtractResult{Text: text}, nil
}
