// Package extractors contains TextExtractor implementations, one
// sub-package per input format.
//
// Available extractors:
//   - pdf: in-process PDF text extraction
//   - pdftotext: PDF extraction through poppler's pdftotext binary
//   - docx: Word documents
//   - plaintext: UTF-8 text
//   - auto: picks one of the above by sniffing the content
package extractors
