// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The RAG pipeline lives here: IngestionPipeline turns raw PDFs into
// documents, GenerationEngine assembles prompts and parses model output,
// and the orchestrators tie retrieval to generation. QueryService and
// WritingService wrap the orchestrators with validation, persistence and
// a uniform domain.Result.
//
// Services are pure Go with no CGO or external dependencies beyond
// identifiers and worker pools.
package services
