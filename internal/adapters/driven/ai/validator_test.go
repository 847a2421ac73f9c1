package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

func ollamaStub(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConfigValidator_EmptyProviderIsDisabled(t *testing.T) {
	v := NewConfigValidator()

	assert.NoError(t, v.ValidateLLM(nil))
	assert.NoError(t, v.ValidateEmbedding(nil))
	assert.NoError(t, v.ValidateLLM(&domain.LLMSettings{Model: "llama3"}))
	assert.NoError(t, v.ValidateEmbedding(&domain.EmbeddingSettings{Model: "nomic-embed-text"}))
}

func TestConfigValidator_ValidateLLM_StaticErrors(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.LLMSettings
		contains string
	}{
		{"unknown provider", domain.LLMSettings{Provider: "mistral"}, `llm.provider "mistral"`},
		{"openai without key", domain.LLMSettings{Provider: domain.AIProviderOpenAI}, "llm.api_key is required for openai"},
		{"anthropic without key", domain.LLMSettings{Provider: domain.AIProviderAnthropic}, "llm.api_key is required for anthropic"},
		{"negative rate", domain.LLMSettings{Provider: domain.AIProviderOllama, RequestsPerSecond: -1}, "requests_per_second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigValidator().ValidateLLM(&tt.settings)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestConfigValidator_ValidateEmbedding_RejectsChatOnlyProviders(t *testing.T) {
	for _, p := range []domain.AIProvider{domain.AIProviderAnthropic, domain.AIProviderGemini} {
		t.Run(string(p), func(t *testing.T) {
			err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{Provider: p, APIKey: "k"})

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), "cannot be used for embeddings")
		})
	}
}

func TestConfigValidator_ValidateEmbedding_OpenAIWithoutKey(t *testing.T) {
	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConfigValidator_PingsOllama(t *testing.T) {
	srv := ollamaStub(t, http.StatusOK)
	v := NewConfigValidator()

	assert.NoError(t, v.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL, Model: "llama3"}))
	assert.NoError(t, v.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL, Model: "nomic-embed-text"}))
}

func TestConfigValidator_PingFailure(t *testing.T) {
	srv := ollamaStub(t, http.StatusInternalServerError)

	err := NewConfigValidator().ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

func TestConfigValidator_Unreachable(t *testing.T) {
	v := NewConfigValidator().WithTimeout(200 * time.Millisecond)

	assert.Error(t, v.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: "http://127.0.0.1:1"}))
	assert.Error(t, v.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: "http://127.0.0.1:1"}))
}

func TestConfigValidator_WithTimeoutIgnoresNonPositive(t *testing.T) {
	v := NewConfigValidator().WithTimeout(0)

	assert.Equal(t, pingTimeout, v.timeout)
}
