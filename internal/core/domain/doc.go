// Package domain defines the core business entities for Lexa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested legal text with derived metadata
//   - DocumentReference: A ranked, per-query pointer into a Document
//   - Query / QueryResponse: A legal question and its answer
//   - Writing / WritingResponse: A drafting request and the generated draft
//   - ValidationReport: The parsed outcome of a document review
//   - Result: The uniform success/failure envelope returned by orchestration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
