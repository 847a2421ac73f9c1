package services

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyLLMProvider          = "llm.provider"
	KeyLLMModel             = "llm.model"
	KeyLLMBaseURL           = "llm.base_url"
	KeyLLMAPIKey            = "llm.api_key"
	KeyLLMRequestsPerSecond = "llm.requests_per_second"
	KeyEmbedProvider        = "embedding.provider"
	KeyEmbedModel           = "embedding.model"
	KeyEmbedBaseURL         = "embedding.base_url"
	KeyEmbedAPIKey          = "embedding.api_key"
	KeyRetrievalMode        = "retrieval.mode"
	KeyRetrievalLimit       = "retrieval.limit"
	KeyIngestionRoot        = "ingestion.root"
	KeyIngestionExtension   = "ingestion.extension"
	KeyIngestionLanguage    = "ingestion.language"
	KeyIngestionJurisdict   = "ingestion.jurisdiction"
	KeyIngestionWorkers     = "ingestion.workers"
	KeyIngestionExtractor   = "ingestion.extractor"
	KeyGenerationMaxDocs    = "generation.max_context_documents"
	KeyGenerationStrict     = "generation.strict_validity"
	KeyStorageBackend       = "storage.backend"
	KeyStorageDataDir       = "storage.data_dir"
	KeyServerAddr           = "server.addr"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
)

// settingKinds lists every settable key and how its value is parsed.
var settingKinds = map[string]keyKind{
	KeyLLMProvider:          kindString,
	KeyLLMModel:             kindString,
	KeyLLMBaseURL:           kindString,
	KeyLLMAPIKey:            kindString,
	KeyLLMRequestsPerSecond: kindFloat,
	KeyEmbedProvider:        kindString,
	KeyEmbedModel:           kindString,
	KeyEmbedBaseURL:         kindString,
	KeyEmbedAPIKey:          kindString,
	KeyRetrievalMode:        kindString,
	KeyRetrievalLimit:       kindInt,
	KeyIngestionRoot:        kindString,
	KeyIngestionExtension:   kindString,
	KeyIngestionLanguage:    kindString,
	KeyIngestionJurisdict:   kindString,
	KeyIngestionWorkers:     kindInt,
	KeyIngestionExtractor:   kindString,
	KeyGenerationMaxDocs:    kindInt,
	KeyGenerationStrict:     kindBool,
	KeyStorageBackend:       kindString,
	KeyStorageDataDir:       kindString,
	KeyServerAddr:           kindString,
}

// SettingKeys returns every settable key.
func SettingKeys() []string {
	return slices.Sorted(maps.Keys(settingKinds))
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// Unset or unrecognised values fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(KeyLLMProvider, defaults.LLM.Provider),
			Model:             s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL:           s.configStore.GetString(KeyLLMBaseURL),
			APIKey:            s.configStore.GetString(KeyLLMAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(KeyLLMRequestsPerSecond),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(KeyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:   s.configStore.GetString(KeyEmbedAPIKey),
		},
		Retrieval: domain.RetrievalSettings{
			Mode:  s.getRetrievalMode(defaults.Retrieval.Mode),
			Limit: s.getInt(KeyRetrievalLimit, defaults.Retrieval.Limit),
		},
		Ingestion: domain.IngestionSettings{
			Root:         s.getString(KeyIngestionRoot, defaults.Ingestion.Root),
			Extension:    s.getString(KeyIngestionExtension, defaults.Ingestion.Extension),
			Language:     s.getString(KeyIngestionLanguage, defaults.Ingestion.Language),
			Jurisdiction: s.getString(KeyIngestionJurisdict, defaults.Ingestion.Jurisdiction),
			Workers:      s.getInt(KeyIngestionWorkers, defaults.Ingestion.Workers),
			Extractor:    s.getString(KeyIngestionExtractor, defaults.Ingestion.Extractor),
		},
		Generation: domain.GenerationSettings{
			MaxContextDocuments: s.getInt(KeyGenerationMaxDocs, defaults.Generation.MaxContextDocuments),
			StrictValidity:      s.getBool(KeyGenerationStrict, defaults.Generation.StrictValidity),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.getString(KeyStorageDataDir, defaults.Storage.DataDir),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(KeyServerAddr, defaults.Server.Addr),
		},
	}

	return settings, nil
}

// Set updates a single key. The raw value is parsed according to the key's
// type, and enumerated values are checked before anything is written.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrValidation, key)
	}

	if err := validateSettingValue(key, value); err != nil {
		return err
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrValidation, key)
		}
		parsed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrValidation, key)
		}
		parsed = b
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func validateSettingValue(key, value string) error {
	var valid bool
	switch key {
	case KeyLLMProvider:
		valid = domain.AIProvider(value).IsValid()
	case KeyEmbedProvider:
		valid = domain.EmbeddingSettings{Provider: domain.AIProvider(value), APIKey: "-"}.IsConfigured()
	case KeyRetrievalMode:
		valid = domain.RetrievalMode(value).IsValid()
	case KeyStorageBackend:
		valid = domain.StorageBackend(value).IsValid()
	case KeyIngestionExtractor:
		valid = domain.IsValidExtractor(value)
	case KeyIngestionExtension:
		valid = strings.HasPrefix(value, ".")
	default:
		return nil
	}
	if !valid {
		return fmt.Errorf("%w: invalid value %q for %s", domain.ErrValidation, value, key)
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	baseURL := ""
	if provider.IsLocal() {
		baseURL = s.getString(KeyLLMBaseURL, "http://localhost:11434")
	}

	return s.setAll(map[string]any{
		KeyLLMProvider: provider.String(),
		KeyLLMModel:    model,
		KeyLLMBaseURL:  baseURL,
		KeyLLMAPIKey:   apiKey,
	})
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	supported := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	baseURL := ""
	if provider.IsLocal() {
		baseURL = s.getString(KeyEmbedBaseURL, "http://localhost:11434")
	}

	return s.setAll(map[string]any{
		KeyEmbedProvider: provider.String(),
		KeyEmbedModel:    model,
		KeyEmbedBaseURL:  baseURL,
		KeyEmbedAPIKey:   apiKey,
	})
}

func (s *SettingsService) setAll(values map[string]any) error {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if err := s.configStore.Set(key, values[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ConfigPath returns the backing configuration file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getRetrievalMode(defaultVal domain.RetrievalMode) domain.RetrievalMode {
	mode := domain.RetrievalMode(s.configStore.GetString(KeyRetrievalMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(KeyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
