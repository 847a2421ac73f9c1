package cli

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

var errMock = errors.New("mock failure")

var testTime = time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

func testDocument(id, title string, category domain.Category) domain.Document {
	pages := 12
	return domain.Document{
		ID:       id,
		Title:    title,
		Content:  "ARTÍCULO 1. " + title,
		Source:   "/docs/" + id + ".pdf",
		Category: category,
		Metadata: domain.Metadata{
			FileName:      id + ".pdf",
			FileSizeBytes: 2048,
			PageCount:     &pages,
			Language:      "es",
			Jurisdiction:  "Argentina",
			Tags:          []string{category.Tag()},
		},
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

// mockLibraryService keeps documents in a slice.
type mockLibraryService struct {
	docs       []domain.Document
	err        error
	lastFilter domain.DocumentFilter
	lastUpdate domain.DocumentUpdate
	indexed    []domain.BatchItem
}

func (m *mockLibraryService) Index(_ context.Context, sourceRef string, category domain.Category) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.indexed = append(m.indexed, domain.BatchItem{Source: sourceRef, Category: category})
	doc := testDocument("doc-new", "Nuevo documento", category)
	doc.Source = sourceRef
	return &doc, nil
}

func (m *mockLibraryService) IndexBytes(ctx context.Context, fileName string, _ []byte, category domain.Category) (*domain.Document, error) {
	return m.Index(ctx, fileName, category)
}

func (m *mockLibraryService) IndexBatch(ctx context.Context, items []domain.BatchItem) []domain.BatchItemResult {
	results := make([]domain.BatchItemResult, 0, len(items))
	for _, item := range items {
		r := domain.BatchItemResult{Source: item.Source, Category: item.Category}
		if item.Source == "broken.pdf" {
			r.Err = errMock
		} else {
			r.Document, _ = m.Index(ctx, item.Source, item.Category)
		}
		results = append(results, r)
	}
	return results
}

func (m *mockLibraryService) IndexDirectory(ctx context.Context, dir string, category domain.Category) ([]domain.BatchItemResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if dir == "empty" {
		return nil, nil
	}
	return m.IndexBatch(ctx, []domain.BatchItem{{Source: dir + "/a.pdf", Category: category}}), nil
}

func (m *mockLibraryService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			doc := m.docs[i]
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockLibraryService) List(_ context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Document
	for _, d := range m.docs {
		if filter.Category == nil || d.Category == *filter.Category {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockLibraryService) Update(ctx context.Context, id string, update domain.DocumentUpdate) (*domain.Document, error) {
	m.lastUpdate = update
	return m.Get(ctx, id)
}

func (m *mockLibraryService) Delete(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockLibraryService) Stats(_ context.Context) (*domain.LibraryStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	stats := &domain.LibraryStats{ByCategory: make(map[domain.Category]int)}
	for _, d := range m.docs {
		stats.Total++
		stats.ByCategory[d.Category]++
	}
	return stats, nil
}

// mockSearchService returns one reference per call and records the options.
type mockSearchService struct {
	refs      []domain.DocumentReference
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.DocumentReference, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.refs, nil
}

// mockQueryService answers every question with a canned response.
type mockQueryService struct {
	fail    string
	lastReq driving.AskRequest
}

func (m *mockQueryService) Ask(_ context.Context, req driving.AskRequest) domain.Result[domain.QueryResponse] {
	m.lastReq = req
	if m.fail != "" {
		return domain.Fail[domain.QueryResponse](m.fail)
	}
	return domain.Ok(&domain.QueryResponse{
		ID:         "resp-1",
		QueryID:    "q-1",
		Answer:     "La pena es de ocho a veinticinco años.",
		Sources:    []domain.DocumentReference{{DocumentID: "cp", Title: "Código Penal", RelevanceScore: 0.9}},
		Confidence: 0.9,
		Reasoning:  "Artículo 79.",
		CreatedAt:  testTime,
	}, "")
}

func (m *mockQueryService) Get(_ context.Context, id string) domain.Result[domain.QueryRecord] {
	if id != "q-1" {
		return domain.Fail[domain.QueryRecord](domain.ResultNotFound)
	}
	resp := m.Ask(context.Background(), driving.AskRequest{})
	return domain.Ok(&domain.QueryRecord{
		Query:     domain.Query{ID: "q-1", Question: "¿Pena por homicidio?", Type: domain.QueryTypeLegalQuestion, CreatedAt: testTime},
		Responses: []domain.QueryResponse{*resp.Data},
	}, "")
}

func (m *mockQueryService) History(_ context.Context, userID string) domain.Result[[]domain.Query] {
	queries := []domain.Query{}
	if userID != "nobody" {
		queries = append(queries, domain.Query{ID: "q-1", Question: "¿Pena por homicidio?", UserID: userID, CreatedAt: testTime})
	}
	return domain.Ok(&queries, "")
}

// mockWritingService drafts a two-section document.
type mockWritingService struct {
	fail    string
	invalid bool
	lastReq driving.DraftRequest
	lastDoc string
}

func (m *mockWritingService) Generate(_ context.Context, req driving.DraftRequest) domain.Result[domain.WritingResponse] {
	m.lastReq = req
	if m.fail != "" {
		return domain.Fail[domain.WritingResponse](m.fail)
	}
	return domain.Ok(&domain.WritingResponse{
		ID:        "wr-1",
		WritingID: "w-1",
		Content:   "1. HECHOS\nEl actor reclama.\n2. PETITORIO\nSe condene.",
		Sections: []domain.Section{
			{Title: "1. HECHOS", Content: "El actor reclama.", Order: 1},
			{Title: "2. PETITORIO", Content: "Se condene.", Order: 2},
		},
		Sources:    []domain.DocumentReference{{DocumentID: "cc", Title: "Código Civil", RelevanceScore: 0.8}},
		Confidence: 0.8,
		CreatedAt:  testTime,
	}, "")
}

func (m *mockWritingService) Validate(_ context.Context, content string) domain.Result[domain.ValidationReport] {
	m.lastDoc = content
	if m.fail != "" {
		return domain.Fail[domain.ValidationReport](m.fail)
	}
	return domain.Ok(&domain.ValidationReport{
		IsValid:     !m.invalid,
		Issues:      []string{"Falta la fecha"},
		Suggestions: []string{},
		Analysis:    "Documento incompleto.",
	}, "")
}

func (m *mockWritingService) Get(_ context.Context, id string) domain.Result[domain.WritingRecord] {
	if id != "w-1" {
		return domain.Fail[domain.WritingRecord](domain.ResultNotFound)
	}
	return domain.Ok(&domain.WritingRecord{
		Writing: domain.Writing{ID: "w-1", Title: "Demanda", Type: domain.DocumentTypeComplaint, CreatedAt: testTime},
	}, "")
}

func (m *mockWritingService) History(_ context.Context, _ string) domain.Result[[]domain.Writing] {
	writings := []domain.Writing{{ID: "w-1", Title: "Demanda", Type: domain.DocumentTypeComplaint, CreatedAt: testTime}}
	return domain.Ok(&writings, "")
}

// mockSettingsService holds settings in memory.
type mockSettingsService struct {
	settings domain.Settings
	sets     map[string]string
	err      error
	// validateErr is returned by the provider validation calls only.
	validateErr error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultSettings(), sets: make(map[string]string)}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return m.err
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.Settings   { return domain.DefaultSettings() }
func (m *mockSettingsService) ValidateLLMConfig() error       { return m.validateErr }
func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.validateErr }
func (m *mockSettingsService) ConfigPath() string             { return "/tmp/lexa/config.toml" }

// testServices are the mocks installed by setupTestServices.
type testServices struct {
	library  *mockLibraryService
	search   *mockSearchService
	query    *mockQueryService
	writing  *mockWritingService
	settings *mockSettingsService
}

// setupTestServices installs mock services so commands skip bootstrap.
// The returned function restores a clean state.
func setupTestServices() func() {
	_, cleanup := setupTestServicesWith()
	return cleanup
}

func setupTestServicesWith() (*testServices, func()) {
	ts := &testServices{
		library: &mockLibraryService{docs: []domain.Document{
			testDocument("cp", "Código Penal", domain.CategoryPenalCode),
			testDocument("cc", "Código Civil y Comercial", domain.CategoryCivilCode),
		}},
		search: &mockSearchService{refs: []domain.DocumentReference{{
			DocumentID:       "cp",
			Title:            "Código Penal",
			RelevantSections: []string{"ARTÍCULO 79. Se aplicará reclusión o prisión de ocho a veinticinco años"},
			RelevanceScore:   0.75,
		}}},
		query:    &mockQueryService{},
		writing:  &mockWritingService{},
		settings: newMockSettingsService(),
	}
	SetServices(&Services{
		Library:    ts.library,
		Search:     ts.search,
		Query:      ts.query,
		Writing:    ts.writing,
		Settings:   ts.settings,
		Persistent: true,
	})
	return ts, func() {
		SetServices(nil)
		resetFlags(rootCmd)
	}
}

// setupNoServices installs an empty service set, so commands report
// unconfigured services instead of bootstrapping.
func setupNoServices() func() {
	SetServices(&Services{})
	return func() {
		SetServices(nil)
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag of cmd and its children to its default.
// Cobra keeps flag values between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns the combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
