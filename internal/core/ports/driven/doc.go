// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document persistence
//   - QueryStore: Query and answer history
//   - WritingStore: Drafting request and draft history
//   - TextExtractor: Turns raw PDF bytes into text
//   - Retriever: Finds documents relevant to a query
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, answering,
//     drafting and validation fail with domain.ErrLLMUnavailable.
//   - EmbeddingService: Generates vector embeddings. Only required when
//     retrieval.mode is "vector".
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, retriever, or extractor package
package driven
