package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/core/services"
	"github.com/custodia-labs/lexa-cli/internal/extractors/auto"
	"github.com/custodia-labs/lexa-cli/internal/extractors/docx"
	"github.com/custodia-labs/lexa-cli/internal/extractors/pdf"
	"github.com/custodia-labs/lexa-cli/internal/extractors/pdftotext"
	"github.com/custodia-labs/lexa-cli/internal/extractors/plaintext"
	"github.com/custodia-labs/lexa-cli/internal/logger"
	"github.com/custodia-labs/lexa-cli/internal/postprocessors/chunker"
	"github.com/custodia-labs/lexa-cli/internal/retrievers/keyword"
	"github.com/custodia-labs/lexa-cli/internal/retrievers/vector"
)

// BootstrapOptions controls how the services are assembled.
type BootstrapOptions struct {
	// ConfigDir holds config.toml and prompts/. Empty means ~/.lexa.
	ConfigDir string

	// Ephemeral forces in-memory storage regardless of storage.backend.
	Ephemeral bool

	// DotenvPath is read before the process environment. A missing file is ignored.
	DotenvPath string

	// Overrides shadow config keys for this run, like LEXA_ variables.
	Overrides map[string]string
}

// stores bundles the persistence ports.
type stores struct {
	docs     driven.DocumentStore
	queries  driven.QueryStore
	writings driven.WritingStore
	close    func() error
}

// Bootstrap builds every service from configuration. The returned function
// releases the storage and AI clients.
func Bootstrap(opts BootstrapOptions) (*Services, func() error, error) {
	log := logger.With("bootstrap")

	settingsSvc, err := BootstrapSettings(opts)
	if err != nil {
		return nil, nil, err
	}
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w. Run 'lexa settings show' to review", err)
	}

	promptDir := ""
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening prompts: %w", err)
	}

	extractor, err := newExtractor(settings.Ingestion.Extractor)
	if err != nil {
		return nil, nil, err
	}

	backend := settings.Storage.Backend
	if opts.Ephemeral {
		backend = domain.StorageBackendMemory
	}
	dataDir := settings.Storage.DataDir
	if dataDir == "" && opts.ConfigDir != "" {
		dataDir = filepath.Join(opts.ConfigDir, "data")
	}
	st, err := newStores(backend, dataDir)
	if err != nil {
		return nil, nil, err
	}

	aiServices := ai.Init(settings)
	warnings := append([]string(nil), aiServices.Warnings...)

	retriever := newRetriever(settings.Retrieval.Mode, st.docs, aiServices.EmbeddingService)
	if settings.Retrieval.Mode == domain.RetrievalModeVector && aiServices.EmbeddingService == nil {
		warnings = append(warnings, "vector retrieval unavailable, using keyword retrieval")
	}
	if !settings.LLM.IsConfigured() {
		warnings = append(warnings, "no LLM configured: ask, draft and validate are disabled. Run 'lexa settings llm'")
	}

	pipeline := services.NewIngestionPipeline(extractor, services.IngestionConfig{
		Root:         settings.Ingestion.Root,
		Extension:    settings.Ingestion.Extension,
		Language:     settings.Ingestion.Language,
		Jurisdiction: settings.Ingestion.Jurisdiction,
		Workers:      settings.Ingestion.Workers,
	})
	engine := services.NewGenerationEngine(aiServices.LLMService, prompts, services.GenerationConfig{
		MaxContextDocuments: settings.Generation.MaxContextDocuments,
		StrictValidity:      settings.Generation.StrictValidity,
	})
	limit := settings.Retrieval.Limit

	svc := &Services{
		Library:    services.NewLibraryService(pipeline, st.docs),
		Search:     services.NewSearchService(retriever, limit),
		Query:      services.NewQueryService(services.NewQueryOrchestrator(retriever, st.docs, engine, limit), st.queries),
		Writing:    services.NewWritingService(services.NewWritingOrchestrator(retriever, st.docs, engine, limit), st.writings),
		Settings:   settingsSvc,
		Persistent: backend != domain.StorageBackendMemory,
		Warnings:   warnings,
	}

	closer := func() error {
		aiServices.Close()
		return st.close()
	}
	log.Debug("ready: extractor=%s retrieval=%s storage=%s", extractor.Name(), settings.Retrieval.Mode, backend)
	return svc, closer, nil
}

// BootstrapSettings opens only the configuration. Settings commands use it
// so a broken configuration can still be repaired.
func BootstrapSettings(opts BootstrapOptions) (*services.SettingsService, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	env, err := file.Environment(opts.DotenvPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.DotenvPath, err)
	}
	for key, value := range opts.Overrides {
		env[file.EnvPrefix+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = value
	}
	configStore.ApplyEnv(env)
	logger.Debug("config: %s", configStore.Path())

	return services.NewSettingsService(configStore, ai.NewConfigValidator()), nil
}

// newExtractor selects the TextExtractor named by ingestion.extractor.
func newExtractor(name string) (driven.TextExtractor, error) {
	switch name {
	case "", "pdf":
		return pdf.New(), nil
	case "pdftotext":
		if err := pdftotext.CheckAvailable(); err != nil {
			return nil, fmt.Errorf("%w\n%s", err, pdftotext.InstallInstructions())
		}
		return pdftotext.New(), nil
	case "auto":
		var pdfExtractor driven.TextExtractor = pdf.New()
		if pdftotext.CheckAvailable() == nil {
			pdfExtractor = pdftotext.New()
		}
		return auto.New(pdfExtractor, docx.New(), plaintext.New()), nil
	default:
		return nil, fmt.Errorf("%w: extractor %q", domain.ErrUnsupportedType, name)
	}
}

// newStores opens the persistence backend.
func newStores(backend domain.StorageBackend, dataDir string) (*stores, error) {
	switch backend {
	case domain.StorageBackendMemory:
		return &stores{
			docs:     memory.NewDocumentStore(),
			queries:  memory.NewQueryStore(),
			writings: memory.NewWritingStore(),
			close:    func() error { return nil },
		}, nil
	case domain.StorageBackendSQLite:
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		logger.Debug("database: %s", db.Path())
		return &stores{
			docs:     db.DocumentStore(),
			queries:  db.QueryStore(),
			writings: db.WritingStore(),
			close:    db.Close,
		}, nil
	default:
		return nil, errors.New("unknown storage backend: " + string(backend))
	}
}

// newRetriever picks the retriever for mode. Vector retrieval without an
// embedder degrades to keyword retrieval.
func newRetriever(mode domain.RetrievalMode, docs driven.DocumentStore, embedder driven.EmbeddingService) driven.Retriever {
	if mode == domain.RetrievalModeVector && embedder != nil {
		return vector.New(docs, embedder, chunker.New())
	}
	return keyword.New(docs)
}
