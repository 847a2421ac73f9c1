package mcp

import (
	"context"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.DocumentReference
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.DocumentReference, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	documents  []domain.Document
	document   *domain.Document
	err        error
	lastFilter domain.DocumentFilter
}

func (m *mockLibraryService) Index(_ context.Context, _ string, _ domain.Category) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockLibraryService) IndexBytes(_ context.Context, _ string, _ []byte, _ domain.Category) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockLibraryService) IndexBatch(_ context.Context, _ []domain.BatchItem) []domain.BatchItemResult {
	return nil
}

func (m *mockLibraryService) IndexDirectory(_ context.Context, _ string, _ domain.Category) ([]domain.BatchItemResult, error) {
	return nil, m.err
}

func (m *mockLibraryService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockLibraryService) List(_ context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	m.lastFilter = filter
	return m.documents, m.err
}

func (m *mockLibraryService) Update(_ context.Context, _ string, _ domain.DocumentUpdate) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockLibraryService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockLibraryService) Stats(_ context.Context) (*domain.LibraryStats, error) {
	return &domain.LibraryStats{}, m.err
}

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	result  domain.Result[domain.QueryResponse]
	lastReq driving.AskRequest
}

func (m *mockQueryService) Ask(_ context.Context, req driving.AskRequest) domain.Result[domain.QueryResponse] {
	m.lastReq = req
	return m.result
}

func (m *mockQueryService) Get(_ context.Context, _ string) domain.Result[domain.QueryRecord] {
	return domain.Fail[domain.QueryRecord](domain.ResultNotFound)
}

func (m *mockQueryService) History(_ context.Context, _ string) domain.Result[[]domain.Query] {
	return domain.Ok(&[]domain.Query{}, "ok")
}

// mockWritingService is a mock implementation of driving.WritingService.
type mockWritingService struct {
	draft   domain.Result[domain.WritingResponse]
	report  domain.Result[domain.ValidationReport]
	lastReq driving.DraftRequest
}

func (m *mockWritingService) Generate(_ context.Context, req driving.DraftRequest) domain.Result[domain.WritingResponse] {
	m.lastReq = req
	return m.draft
}

func (m *mockWritingService) Validate(_ context.Context, _ string) domain.Result[domain.ValidationReport] {
	return m.report
}

func (m *mockWritingService) Get(_ context.Context, _ string) domain.Result[domain.WritingRecord] {
	return domain.Fail[domain.WritingRecord](domain.ResultNotFound)
}

func (m *mockWritingService) History(_ context.Context, _ string) domain.Result[[]domain.Writing] {
	return domain.Ok(&[]domain.Writing{}, "ok")
}
