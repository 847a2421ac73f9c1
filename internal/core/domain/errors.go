package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a request or enumeration value was rejected.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidInput is kept as an alias of ErrValidation so callers that
	// check either sentinel match the same failures.
	ErrInvalidInput = ErrValidation

	// ErrExtraction indicates the raw source could not be turned into text.
	ErrExtraction = errors.New("text extraction failed")

	// ErrGeneration indicates the language model call failed.
	ErrGeneration = errors.New("generation failed")

	// ErrStorage indicates a persistence backend failure.
	ErrStorage = errors.New("storage failure")

	// ErrUnsupportedType indicates an unknown provider, extractor or backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answering, drafting and validation are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Vector retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the provider rejected a request for rate.
	ErrRateLimited = errors.New("rate limited")
)
