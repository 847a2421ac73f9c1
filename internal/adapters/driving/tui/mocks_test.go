package tui

import (
	"context"
	"errors"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.DocumentReference, error)
}

func (m *MockSearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.DocumentReference, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return []domain.DocumentReference{
		{DocumentID: "cp", Title: "Código Penal", RelevanceScore: 0.9},
	}, nil
}

// MockLibraryService implements driving.LibraryService for testing.
type MockLibraryService struct {
	Docs []domain.Document
}

func (m *MockLibraryService) Index(context.Context, string, domain.Category) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}

func (m *MockLibraryService) IndexBytes(context.Context, string, []byte, domain.Category) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}

func (m *MockLibraryService) IndexBatch(context.Context, []domain.BatchItem) []domain.BatchItemResult {
	return nil
}

func (m *MockLibraryService) IndexDirectory(context.Context, string, domain.Category) ([]domain.BatchItemResult, error) {
	return nil, nil
}

func (m *MockLibraryService) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.Docs {
		if m.Docs[i].ID == id {
			return &m.Docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockLibraryService) List(context.Context, domain.DocumentFilter) ([]domain.Document, error) {
	return m.Docs, nil
}

func (m *MockLibraryService) Update(context.Context, string, domain.DocumentUpdate) (*domain.Document, error) {
	return nil, errors.New("not implemented")
}

func (m *MockLibraryService) Delete(context.Context, string) error { return nil }

func (m *MockLibraryService) Stats(context.Context) (*domain.LibraryStats, error) {
	return &domain.LibraryStats{Total: len(m.Docs)}, nil
}

// MockQueryService implements driving.QueryService for testing.
type MockQueryService struct{}

func (m *MockQueryService) Ask(_ context.Context, req driving.AskRequest) domain.Result[domain.QueryResponse] {
	return domain.Ok(&domain.QueryResponse{
		ID:         "r-1",
		QueryID:    "q-1",
		Answer:     "Respuesta a " + req.Question,
		Confidence: 0.8,
	}, "Query processed successfully")
}

func (m *MockQueryService) Get(context.Context, string) domain.Result[domain.QueryRecord] {
	return domain.Fail[domain.QueryRecord](domain.ResultNotFound)
}

func (m *MockQueryService) History(context.Context, string) domain.Result[[]domain.Query] {
	return domain.Ok(&[]domain.Query{}, "")
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct{}

func (m *MockSettingsService) Get() (*domain.Settings, error) {
	s := domain.DefaultSettings()
	return &s, nil
}

func (m *MockSettingsService) Set(string, string) error { return nil }

func (m *MockSettingsService) SetLLMProvider(domain.AIProvider, string, string) error { return nil }

func (m *MockSettingsService) SetEmbeddingProvider(domain.AIProvider, string, string) error {
	return nil
}

func (m *MockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

func (m *MockSettingsService) ValidateLLMConfig() error { return nil }

func (m *MockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *MockSettingsService) ConfigPath() string { return ":memory:" }

func testPorts() *Ports {
	return &Ports{
		Search: &MockSearchService{},
		Library: &MockLibraryService{Docs: []domain.Document{
			{ID: "cp", Title: "Código Penal", Content: "ARTÍCULO 79.- Se aplicará reclusión", Category: domain.CategoryPenalCode},
		}},
		Query:    &MockQueryService{},
		Settings: &MockSettingsService{},
	}
}
