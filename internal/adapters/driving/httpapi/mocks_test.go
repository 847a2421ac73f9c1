package httpapi

import (
	"context"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

type mockLibrary struct {
	docs       map[string]*domain.Document
	err        error
	lastData   []byte
	lastName   string
	lastCat    domain.Category
	lastFilter domain.DocumentFilter
	lastUpdate domain.DocumentUpdate
	batch      []domain.BatchItemResult
}

func newMockLibrary() *mockLibrary {
	return &mockLibrary{docs: map[string]*domain.Document{}}
}

func (m *mockLibrary) Index(_ context.Context, source string, category domain.Category) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastCat = category
	doc := &domain.Document{ID: "doc-1", Title: source, Source: source, Category: category}
	m.docs[doc.ID] = doc
	return doc, nil
}

func (m *mockLibrary) IndexBytes(_ context.Context, name string, data []byte, category domain.Category) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastName, m.lastData, m.lastCat = name, data, category
	return &domain.Document{ID: "doc-up", Title: name, Category: category}, nil
}

func (m *mockLibrary) IndexBatch(_ context.Context, items []domain.BatchItem) []domain.BatchItemResult {
	if m.batch != nil {
		return m.batch
	}
	out := make([]domain.BatchItemResult, 0, len(items))
	for _, it := range items {
		out = append(out, domain.BatchItemResult{Source: it.Source, Category: it.Category,
			Document: &domain.Document{ID: it.Source}})
	}
	return out
}

func (m *mockLibrary) IndexDirectory(_ context.Context, _ string, _ domain.Category) ([]domain.BatchItemResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.batch, nil
}

func (m *mockLibrary) Get(_ context.Context, id string) (*domain.Document, error) {
	if doc, ok := m.docs[id]; ok {
		return doc, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockLibrary) List(_ context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Document
	for _, d := range m.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockLibrary) Update(_ context.Context, id string, update domain.DocumentUpdate) (*domain.Document, error) {
	m.lastUpdate = update
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if update.Title != nil {
		doc.Title = *update.Title
	}
	return doc, nil
}

func (m *mockLibrary) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *mockLibrary) Stats(_ context.Context) (*domain.LibraryStats, error) {
	return &domain.LibraryStats{Total: len(m.docs), ByCategory: map[domain.Category]int{}}, nil
}

type mockSearch struct {
	refs      []domain.DocumentReference
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearch) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.DocumentReference, error) {
	m.lastQuery, m.lastOpts = query, opts
	return m.refs, m.err
}

type mockQuery struct {
	result  domain.Result[domain.QueryResponse]
	lastReq driving.AskRequest
	lastUID string
}

func (m *mockQuery) Ask(_ context.Context, req driving.AskRequest) domain.Result[domain.QueryResponse] {
	m.lastReq = req
	return m.result
}

func (m *mockQuery) Get(_ context.Context, id string) domain.Result[domain.QueryRecord] {
	if id != "q-1" {
		return domain.Fail[domain.QueryRecord](domain.ResultNotFound)
	}
	return domain.Ok(&domain.QueryRecord{Query: domain.Query{ID: id}}, "ok")
}

func (m *mockQuery) History(_ context.Context, userID string) domain.Result[[]domain.Query] {
	m.lastUID = userID
	return domain.Ok(&[]domain.Query{{ID: "q-1", UserID: userID}}, "ok")
}

type mockWriting struct {
	result   domain.Result[domain.WritingResponse]
	report   domain.Result[domain.ValidationReport]
	record   domain.Result[domain.WritingRecord]
	lastReq  driving.DraftRequest
	lastBody string
}

func (m *mockWriting) Generate(_ context.Context, req driving.DraftRequest) domain.Result[domain.WritingResponse] {
	m.lastReq = req
	return m.result
}

func (m *mockWriting) Validate(_ context.Context, content string) domain.Result[domain.ValidationReport] {
	m.lastBody = content
	return m.report
}

func (m *mockWriting) Get(_ context.Context, _ string) domain.Result[domain.WritingRecord] {
	return m.record
}

func (m *mockWriting) History(_ context.Context, _ string) domain.Result[[]domain.Writing] {
	return domain.Ok(&[]domain.Writing{}, "ok")
}
