package driven

import "github.com/custodia-labs/lexa-cli/internal/core/domain"

// AIConfigValidator vets provider settings before they are persisted.
// Both methods return nil when the provider is left empty, since that
// disables the capability rather than misconfiguring it.
type AIConfigValidator interface {
	// ValidateEmbedding checks the provider can embed and is reachable.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM checks the provider is known, keyed and reachable.
	ValidateLLM(config *domain.LLMSettings) error
}
