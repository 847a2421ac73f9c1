package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings before they are saved. Static
// problems (unknown provider, provider without the requested capability,
// missing API key) are reported as domain.ErrValidation without any network
// traffic. Settings that pass are then pinged.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator returns a validator using the default ping timeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// WithTimeout overrides the ping timeout.
func (v *ConfigValidator) WithTimeout(d time.Duration) *ConfigValidator {
	if d > 0 {
		v.timeout = d
	}
	return v
}

// ValidateEmbedding rejects providers that cannot embed, then pings.
// An empty provider means embeddings are disabled and is not an error.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || config.Provider == "" {
		return nil
	}
	switch config.Provider {
	case domain.AIProviderOllama, domain.AIProviderOpenAI:
	case domain.AIProviderAnthropic, domain.AIProviderGemini:
		return fmt.Errorf("%w: %s cannot be used for embeddings", domain.ErrValidation, config.Provider)
	default:
		return fmt.Errorf("%w: embedding.provider %q", domain.ErrValidation, config.Provider)
	}
	if config.Provider.RequiresAPIKey() && config.APIKey == "" {
		return fmt.Errorf("%w: embedding.api_key is required for %s", domain.ErrValidation, config.Provider)
	}

	svc, err := CreateEmbeddingService(config)
	if err != nil {
		return err
	}
	defer svc.Close()
	return v.ping(svc.Ping)
}

// ValidateLLM checks the provider and key, then pings.
// An empty provider means answering is disabled and is not an error.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || config.Provider == "" {
		return nil
	}
	if !config.Provider.IsValid() {
		return fmt.Errorf("%w: llm.provider %q", domain.ErrValidation, config.Provider)
	}
	if config.Provider.RequiresAPIKey() && config.APIKey == "" {
		return fmt.Errorf("%w: llm.api_key is required for %s", domain.ErrValidation, config.Provider)
	}
	if config.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: llm.requests_per_second must not be negative", domain.ErrValidation)
	}

	svc, err := CreateLLMService(config)
	if err != nil {
		return err
	}
	defer svc.Close()
	return v.ping(svc.Ping)
}

func (v *ConfigValidator) ping(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	return fn(ctx)
}
