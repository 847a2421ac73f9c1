// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	embedcache "github.com/custodia-labs/lexa-cli/internal/adapters/driven/embedding/cache"
	ollamaembed "github.com/custodia-labs/lexa-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/lexa-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/lexa-cli/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/lexa-cli/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/lexa-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/lexa-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driven/llm/ratelimit"
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// fixHint is appended to configuration errors.
const fixHint = "Run 'lexa settings llm' to fix"

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues; the affected service is nil.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates and validates the services the settings call for.
// The LLM is throttled when llm.requests_per_second is set. Embeddings are
// only created for vector retrieval and are cached in memory.
// Failures never abort: they are recorded as warnings.
func Init(settings *domain.Settings) *InitResult {
	result := &InitResult{}

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("LLM unavailable: %v", err)
		result.Warnings = append(result.Warnings, err.Error())
	} else if llm != nil {
		result.LLMService = ratelimit.Wrap(llm, settings.LLM.RequestsPerSecond)
		logger.Debug("LLM ready: %s (%s)", settings.LLM.Provider, llm.ModelName())
	}

	if settings.Retrieval.Mode.RequiresEmbedding() {
		embedder, err := CreateAndValidateEmbeddingService(&settings.Embedding)
		switch {
		case err != nil:
			logger.Warn("embeddings unavailable: %v", err)
			result.Warnings = append(result.Warnings, err.Error())
		case embedder == nil:
			result.Warnings = append(result.Warnings,
				"retrieval.mode is vector but no embedding provider is configured")
		default:
			result.EmbeddingService = embedcache.Wrap(embedder, embedcache.DefaultSize, embedcache.DefaultTTL)
			logger.Debug("embeddings ready: %s (%s)", settings.Embedding.Provider, embedder.ModelName())
		}
	}

	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrEmbeddingUnavailable, err, fixHint)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrEmbeddingUnavailable, err, fixHint)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. %s", domain.ErrLLMUnavailable, err, fixHint)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). %s", domain.ErrLLMUnavailable, err, fixHint)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Callers check IsConfigured first; unconfigured settings are an error here.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic, domain.AIProviderGemini:
		return nil, fmt.Errorf("%w: %s does not provide embeddings here, use ollama or openai",
			domain.ErrUnsupportedType, settings.Provider)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	case domain.AIProviderGemini:
		return createGeminiLLM(settings)

	default:
		return nil, fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createGeminiLLM creates a Gemini LLM service.
func createGeminiLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return geminillm.NewLLMService(context.Background(), geminillm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
