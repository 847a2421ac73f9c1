package domain

import "fmt"

const unknownDescription = "Unknown"

// RetrievalMode selects the Retriever implementation.
type RetrievalMode string

// Available retrieval modes.
const (
	// RetrievalModeKeyword scores documents by query-token containment.
	RetrievalModeKeyword RetrievalMode = "keyword"

	// RetrievalModeVector scores documents by embedding similarity.
	RetrievalModeVector RetrievalMode = "vector"
)

// IsValid returns true if the retrieval mode is recognised.
func (m RetrievalMode) IsValid() bool {
	return m == RetrievalModeKeyword || m == RetrievalModeVector
}

// RequiresEmbedding returns true if this mode needs an embedding provider.
func (m RetrievalMode) RequiresEmbedding() bool {
	return m == RetrievalModeVector
}

// AllRetrievalModes returns every retrieval mode.
func AllRetrievalModes() []RetrievalMode {
	return []RetrievalMode{RetrievalModeKeyword, RetrievalModeVector}
}

// String returns the string representation.
func (m RetrievalMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m RetrievalMode) Description() string {
	switch m {
	case RetrievalModeKeyword:
		return "Keyword (token containment)"
	case RetrievalModeVector:
		return "Vector (embedding similarity)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic/Gemini).
	APIKey string

	// RequestsPerSecond throttles outgoing calls. Zero means unlimited.
	RequestsPerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if e.Provider != AIProviderOllama && e.Provider != AIProviderOpenAI {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds retrieval behaviour configuration.
type RetrievalSettings struct {
	Mode  RetrievalMode
	Limit int
}

// IngestionSettings holds ingestion configuration.
type IngestionSettings struct {
	// Root is the directory every source reference is resolved against.
	Root string

	// Extension filters auto-discovery, including the leading dot.
	Extension string

	// Language and Jurisdiction are stamped into every document's metadata.
	Language     string
	Jurisdiction string

	// Workers bounds batch ingestion concurrency.
	Workers int

	// Extractor selects the TextExtractor; see Extractors.
	Extractor string
}

// GenerationSettings holds prompt assembly configuration.
type GenerationSettings struct {
	// MaxContextDocuments caps how many documents are placed in a prompt.
	MaxContextDocuments int

	// StrictValidity requires the VALIDITY label to equal "Valid" exactly
	// (case-insensitive) instead of merely containing it.
	StrictValidity bool
}

// StorageBackend selects the persistence implementation.
type StorageBackend string

// Available storage backends.
const (
	StorageBackendMemory StorageBackend = "memory"
	StorageBackendSQLite StorageBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageBackendMemory || b == StorageBackendSQLite
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir holds the SQLite database. Empty means ~/.lexa/data.
	DataDir string
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	Addr string
}

// Settings holds all application settings.
type Settings struct {
	LLM        LLMSettings
	Embedding  EmbeddingSettings
	Retrieval  RetrievalSettings
	Ingestion  IngestionSettings
	Generation GenerationSettings
	Storage    StorageSettings
	Server     ServerSettings
}

// Setting defaults.
const (
	DefaultLanguage            = "es"
	DefaultJurisdiction        = "Argentina"
	DefaultExtension           = ".pdf"
	DefaultWorkers             = 4
	DefaultMaxContextDocuments = 5
	DefaultServerAddr          = "127.0.0.1:8080"
	DefaultIngestionRoot       = "./documents"
	DefaultExtractor           = "pdf"
)

// DefaultSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users must set them explicitly.
func DefaultSettings() Settings {
	return Settings{
		Retrieval: RetrievalSettings{
			Mode:  RetrievalModeKeyword,
			Limit: DefaultSearchLimit,
		},
		Ingestion: IngestionSettings{
			Root:         DefaultIngestionRoot,
			Extension:    DefaultExtension,
			Language:     DefaultLanguage,
			Jurisdiction: DefaultJurisdiction,
			Workers:      DefaultWorkers,
			Extractor:    DefaultExtractor,
		},
		Generation: GenerationSettings{
			MaxContextDocuments: DefaultMaxContextDocuments,
		},
		Storage: StorageSettings{
			Backend: StorageBackendMemory,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
	}
}

// Validate checks enumerated settings values.
func (s Settings) Validate() error {
	if !s.Retrieval.Mode.IsValid() {
		return fmt.Errorf("%w: retrieval.mode %q", ErrValidation, s.Retrieval.Mode)
	}
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage.backend %q", ErrValidation, s.Storage.Backend)
	}
	if s.LLM.Provider != "" && !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: llm.provider %q", ErrValidation, s.LLM.Provider)
	}
	if !IsValidExtractor(s.Ingestion.Extractor) {
		return fmt.Errorf("%w: ingestion.extractor %q", ErrValidation, s.Ingestion.Extractor)
	}
	return nil
}

// Extractors lists the accepted ingestion.extractor values.
func Extractors() []string {
	return []string{"pdf", "pdftotext", "auto"}
}

// IsValidExtractor reports whether name is one of Extractors.
func IsValidExtractor(name string) bool {
	for _, e := range Extractors() {
		if e == name {
			return true
		}
	}
	return false
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.0-flash",
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
