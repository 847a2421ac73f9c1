package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// executeWithInput runs the root command with stdin set to input.
func executeWithInput(input string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSettingsShow(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.settings.settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenAI, Model: "gpt-4o-mini", APIKey: "sk-proj-abcdefghijkl", RequestsPerSecond: 2,
	}

	out, err := execute("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "File: /tmp/lexa/config.toml")
	assert.Contains(t, out, "[LLM]")
	assert.Contains(t, out, "Model: gpt-4o-mini")
	assert.Contains(t, out, "API Key: sk-p...ijkl")
	assert.NotContains(t, out, "sk-proj-abcdefghijkl")
	assert.Contains(t, out, "Rate limit: 2 requests/s")
	assert.Contains(t, out, "[Ingestion]")
	assert.Contains(t, out, "[Storage]")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_IsDefaultSubcommand(t *testing.T) {
	_, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsShow_WarnsOnInvalidSettings(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.settings.settings.Storage.Backend = "postgres"

	out, err := execute("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
	assert.Contains(t, out, "lexa settings set")
}

func TestSettingsShow_GetError(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.settings.err = errMock

	_, err := execute("settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get settings")
}

func TestSettingsSet(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute("settings", "set", "retrieval.limit", "8")

	require.NoError(t, err)
	assert.Contains(t, out, "retrieval.limit = 8")
	assert.Equal(t, "8", ts.settings.sets["retrieval.limit"])
}

func TestSettingsSet_MasksAPIKey(t *testing.T) {
	_, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute("settings", "set", "llm.api_key", "sk-ant-0123456789")

	require.NoError(t, err)
	assert.Contains(t, out, "llm.api_key = sk-a...6789")
	assert.NotContains(t, out, "0123456789")
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	_, cleanup := setupTestServicesWith()
	defer cleanup()

	_, err := execute("settings", "set", "retrieval.limit")

	assert.Error(t, err)
}

func TestSettingsSet_Error(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.settings.err = errMock

	_, err := execute("settings", "set", "retrieval.mode", "vector")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set retrieval.mode")
}

func TestSettingsLLM_OllamaDefaults(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := executeWithInput("\n\n", "settings", "llm")

	require.NoError(t, err)
	assert.Contains(t, out, "Select LLM Provider")
	assert.Contains(t, out, "Validating configuration... OK")
	assert.Equal(t, domain.AIProviderOllama, ts.settings.settings.LLM.Provider)
	assert.Equal(t, "llama3.2", ts.settings.settings.LLM.Model)
}

func TestSettingsLLM_AnthropicWithKey(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	_, err := executeWithInput("3\nclaude-sonnet-4\nsk-ant-secret\n", "settings", "llm")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, ts.settings.settings.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4", ts.settings.settings.LLM.Model)
	assert.Equal(t, "sk-ant-secret", ts.settings.settings.LLM.APIKey)
}

func TestSettingsLLM_MissingKey(t *testing.T) {
	_, cleanup := setupTestServicesWith()
	defer cleanup()

	_, err := executeWithInput("2\n\n\n", "settings", "llm")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSettingsLLM_ValidationFails(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.settings.validateErr = errors.New("connection refused")

	out, err := executeWithInput("1\n\n", "settings", "llm")

	require.Error(t, err)
	assert.Contains(t, out, "FAILED: connection refused")
	assert.Contains(t, err.Error(), "LLM configuration validation failed")
}

func TestSettingsEmbedding_OpenAI(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := executeWithInput("2\n\nsk-embed-key\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, ts.settings.settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", ts.settings.settings.Embedding.Model)
	assert.Contains(t, out, "retrieval.mode vector")
}

func TestSettingsEmbedding_OutOfRangeChoiceFallsBackToOllama(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	_, err := executeWithInput("9\n\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, ts.settings.settings.Embedding.Provider)
}

func TestSettingsCommands_NoService(t *testing.T) {
	cleanup := setupNoServices()
	defer cleanup()

	for _, args := range [][]string{{"settings", "show"}, {"settings", "set", "a", "b"}, {"settings", "llm"}, {"settings", "embedding"}} {
		_, err := execute(args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
