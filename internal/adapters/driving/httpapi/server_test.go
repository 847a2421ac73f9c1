package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

type fixture struct {
	lib     *mockLibrary
	search  *mockSearch
	query   *mockQuery
	writing *mockWriting
	server  *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		lib:     newMockLibrary(),
		search:  &mockSearch{},
		query:   &mockQuery{},
		writing: &mockWriting{},
	}
	srv, err := NewServer(&Ports{Library: f.lib, Search: f.search, Query: f.query, Writing: f.writing})
	require.NoError(t, err)
	f.server = srv
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestNewServer_RequiresPorts(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
	_, err = NewServer(&Ports{Library: newMockLibrary()})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec, body := f.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
}

func TestNoRoute(t *testing.T) {
	f := newFixture(t)
	rec, body := f.do(t, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestMount(t *testing.T) {
	f := newFixture(t)
	f.server.Mount("/mcp/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Path", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, path := range []string{"/mcp", "/mcp/session"} {
		rec, _ := f.do(t, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
		assert.Equal(t, path, rec.Header().Get("X-Path"))
	}

	rec, _ := f.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrExtraction, http.StatusUnprocessableEntity},
		{domain.ErrUnsupportedType, http.StatusUnprocessableEntity},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
		{domain.ErrLLMUnavailable, http.StatusBadGateway},
		{domain.ErrStorage, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestUploadDocument(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "fallo.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, mw.WriteField("category", "case_law"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "fallo.pdf", f.lib.lastName)
	assert.Equal(t, []byte("%PDF-1.4"), f.lib.lastData)
	assert.Equal(t, domain.CategoryCaseLaw, f.lib.lastCat)
}

func TestUploadDocument_TooLarge(t *testing.T) {
	f := newFixture(t)
	f.server.WithMaxUploadBytes(16)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "expediente.pdf")
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte("x"), 1024))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "upload limit of 16 bytes")
	assert.Empty(t, f.lib.lastName)
}

func TestUploadDocument_BodyOverLimit(t *testing.T) {
	f := newFixture(t)
	f.server.WithMaxUploadBytes(16)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "expediente.pdf")
	require.NoError(t, err)
	_, _ = part.Write(bytes.Repeat([]byte("x"), 2*multipartOverhead))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
	assert.Empty(t, f.lib.lastName)
}

func TestUploadDocument_MissingFile(t *testing.T) {
	f := newFixture(t)
	rec, _ := f.do(t, http.MethodPost, "/api/v1/documents", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIndexDocument(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodPost, "/api/v1/documents/index", map[string]string{"source": "codigo.pdf"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.CategoryOther, f.lib.lastCat)
	data := body["data"].(map[string]any)
	assert.Equal(t, "doc-1", data["id"])

	rec, _ = f.do(t, http.MethodPost, "/api/v1/documents/index", map[string]string{"source": "x.pdf", "category": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.lib.err = fmt.Errorf("%w: no text", domain.ErrExtraction)
	rec, body = f.do(t, http.MethodPost, "/api/v1/documents/index", map[string]string{"source": "scan.pdf"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["message"], "no text")
}

func TestIndexDocument_StorageErrorIsHidden(t *testing.T) {
	f := newFixture(t)
	f.lib.err = fmt.Errorf("%w: disk full at /var/lib", domain.ErrStorage)

	rec, body := f.do(t, http.MethodPost, "/api/v1/documents/index", map[string]string{"source": "a.pdf"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", body["message"])
}

func TestIndexBatch(t *testing.T) {
	f := newFixture(t)
	f.lib.batch = []domain.BatchItemResult{
		{Source: "a.pdf", Category: domain.CategoryCivilCode, Document: &domain.Document{ID: "a"}},
		{Source: "b.pdf", Category: domain.CategoryOther, Err: errors.New("not a pdf")},
	}

	rec, body := f.do(t, http.MethodPost, "/api/v1/documents/batch", map[string]any{
		"items": []map[string]string{{"source": "a.pdf", "category": "CIVIL_CODE"}, {"source": "b.pdf"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 2, data["total"])
	assert.EqualValues(t, 1, data["indexed"])
	assert.EqualValues(t, 1, data["failed"])
	items := data["items"].([]any)
	second := items[1].(map[string]any)
	assert.Equal(t, false, second["success"])
	assert.Equal(t, "not a pdf", second["error"])
}

func TestListDocuments_Filter(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/v1/documents?category=penal_code&tags=a,b&q=robo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["data"])
	require.NotNil(t, f.lib.lastFilter.Category)
	assert.Equal(t, domain.CategoryPenalCode, *f.lib.lastFilter.Category)
	assert.Equal(t, []string{"a", "b"}, f.lib.lastFilter.Tags)
	assert.Equal(t, "robo", f.lib.lastFilter.Text)
}

func TestDocumentCRUD(t *testing.T) {
	f := newFixture(t)
	f.lib.docs["d1"] = &domain.Document{ID: "d1", Title: "Old"}

	rec, _ := f.do(t, http.MethodGet, "/api/v1/documents/d1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := f.do(t, http.MethodPatch, "/api/v1/documents/d1", map[string]any{"title": "New"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New", body["data"].(map[string]any)["title"])

	rec, _ = f.do(t, http.MethodGet, "/api/v1/documents/stats", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/api/v1/documents/d1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/documents/d1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.search.refs = []domain.DocumentReference{{DocumentID: "d1", Title: "Código Penal", RelevanceScore: 0.9}}

	rec, body := f.do(t, http.MethodGet, "/api/v1/search?q=robo&limit=3&category=PENAL_CODE", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "robo", f.search.lastQuery)
	assert.Equal(t, 3, f.search.lastOpts.Limit)
	assert.Len(t, body["data"], 1)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/search?q=robo&limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAsk(t *testing.T) {
	f := newFixture(t)
	f.query.result = domain.Ok(&domain.QueryResponse{ID: "r1", Answer: "Sí."}, "Query processed")

	rec, body := f.do(t, http.MethodPost, "/api/v1/queries", map[string]string{
		"question": "¿Prescripción?", "type": "case_analysis", "userId": "u1", "category": "civil_code",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Sí.", body["data"].(map[string]any)["answer"])
	assert.Equal(t, domain.QueryTypeCaseAnalysis, f.query.lastReq.Type)
	assert.Equal(t, "u1", f.query.lastReq.UserID)
	require.NotNil(t, f.query.lastReq.Category)
	assert.Equal(t, domain.CategoryCivilCode, *f.query.lastReq.Category)
}

func TestAsk_FailedResults(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    int
	}{
		{"invalid", domain.ResultInvalidPrefix + "question is required", http.StatusBadRequest},
		{"not found", domain.ResultNotFound, http.StatusNotFound},
		{"generation", "Sorry, the question could not be answered", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.query.result = domain.Fail[domain.QueryResponse](tt.message)

			rec, body := f.do(t, http.MethodPost, "/api/v1/queries", map[string]string{"question": "q"})
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestQueryHistoryAndGet(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/queries?user=u7", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u7", f.query.lastUID)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/queries/q-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/queries/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDraftAndValidate(t *testing.T) {
	f := newFixture(t)
	f.writing.result = domain.Ok(&domain.WritingResponse{ID: "w1", Content: "1. HECHOS\n..."}, "Document generated")
	f.writing.report = domain.Ok(&domain.ValidationReport{IsValid: true, Issues: []string{}}, "Document validated")

	rec, _ := f.do(t, http.MethodPost, "/api/v1/writings", map[string]string{
		"title": "Demanda", "prompt": "Redactar", "type": "complaint",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.DocumentTypeComplaint, f.writing.lastReq.Type)
	assert.Nil(t, f.writing.lastReq.Category)

	rec, body := f.do(t, http.MethodPost, "/api/v1/writings/validate", map[string]string{"content": "texto"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "texto", f.writing.lastBody)
	assert.Equal(t, true, body["data"].(map[string]any)["isValid"])
}

func TestExportWriting(t *testing.T) {
	f := newFixture(t)
	f.writing.record = domain.Ok(&domain.WritingRecord{
		Writing: domain.Writing{ID: "w1", Title: "Demanda"},
		Responses: []domain.WritingResponse{
			{ID: "r1", Sections: []domain.Section{{Title: "Viejo", Order: 1}}},
			{ID: "r2", Sections: []domain.Section{{Title: "HECHOS", Content: "El actor.", Order: 1}}},
		},
	}, "ok")

	rec, _ := f.do(t, http.MethodGet, "/api/v1/writings/w1/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<title>Demanda</title>")
	assert.Contains(t, rec.Body.String(), "HECHOS")
	assert.NotContains(t, rec.Body.String(), "Viejo")

	rec, _ = f.do(t, http.MethodGet, "/api/v1/writings/w1/export?format=yaml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "title: Demanda")

	rec, _ = f.do(t, http.MethodGet, "/api/v1/writings/w1/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportWriting_NotFound(t *testing.T) {
	f := newFixture(t)
	f.writing.record = domain.Fail[domain.WritingRecord](domain.ResultNotFound)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/writings/nope/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.writing.record = domain.Ok(&domain.WritingRecord{Writing: domain.Writing{ID: "w"}}, "ok")
	rec, _ = f.do(t, http.MethodGet, "/api/v1/writings/w/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.server.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
