package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func testDocument(id, title string, category domain.Category, tags ...string) *domain.Document {
	pages := 3
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Document{
		ID:       id,
		Title:    title,
		Content:  title + " contenido",
		Source:   id + ".pdf",
		Category: category,
		Metadata: domain.Metadata{
			FileName:      id + ".pdf",
			FileSizeBytes: 1024,
			PageCount:     &pages,
			Language:      "es",
			Jurisdiction:  "Argentina",
			Tags:          tags,
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())

	version, err := store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	require.NoError(t, store.Close())

	// Reopening does not reapply migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	version, err = store.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	require.NoError(t, store.Close())
}

func TestDocumentStore_SaveAndFind(t *testing.T) {
	docs := setupTestStore(t).DocumentStore()
	ctx := context.Background()

	doc := testDocument("d1", "Ley 26.061", domain.CategoryCivilCode, "civil_code", "infancia")
	require.NoError(t, docs.Save(ctx, doc))

	got, err := docs.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, domain.CategoryCivilCode, got.Category)
	assert.Equal(t, []string{"civil_code", "infancia"}, got.Metadata.Tags)
	require.NotNil(t, got.Metadata.PageCount)
	assert.Equal(t, 3, *got.Metadata.PageCount)
	assert.True(t, doc.CreatedAt.Equal(got.CreatedAt))

	_, err = docs.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_NilPageCountAndNoTags(t *testing.T) {
	docs := setupTestStore(t).DocumentStore()
	ctx := context.Background()

	doc := testDocument("d1", "Sin páginas", domain.CategoryOther)
	doc.Metadata.PageCount = nil
	require.NoError(t, docs.Save(ctx, doc))

	got, err := docs.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, got.Metadata.PageCount)
	assert.NotNil(t, got.Metadata.Tags)
	assert.Empty(t, got.Metadata.Tags)
}

func TestDocumentStore_ReplaceKeepsOrder(t *testing.T) {
	docs := setupTestStore(t).DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, testDocument("a", "A", domain.CategoryCivilCode, "x")))
	require.NoError(t, docs.Save(ctx, testDocument("b", "B", domain.CategoryCivilCode)))
	require.NoError(t, docs.Save(ctx, testDocument("a", "A2", domain.CategoryPenalCode, "y")))

	all, err := docs.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "A2", all[0].Title)
	assert.Equal(t, []string{"y"}, all[0].Metadata.Tags)
	assert.Equal(t, "b", all[1].ID)
}

func TestDocumentStore_Queries(t *testing.T) {
	docs := setupTestStore(t).DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, testDocument("1", "Homicidio", domain.CategoryPenalCode, "penal_code", "vida")))
	require.NoError(t, docs.Save(ctx, testDocument("2", "Contratos", domain.CategoryCivilCode, "civil_code")))
	require.NoError(t, docs.Save(ctx, testDocument("3", "CÓDIGO Lesiones", domain.CategoryPenalCode, "penal_code")))

	ids := func(list []domain.Document) []string {
		out := make([]string, 0, len(list))
		for _, d := range list {
			out = append(out, d.ID)
		}
		return out
	}

	penal, err := docs.FindByCategory(ctx, domain.CategoryPenalCode)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(penal))

	tagged, err := docs.FindByTags(ctx, []string{"vida", "civil_code"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(tagged))

	none, err := docs.FindByTags(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	found, err := docs.Search(ctx, "código")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(found))

	found, err = docs.Search(ctx, "CONTENIDO")
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestDocumentStore_Update(t *testing.T) {
	store := setupTestStore(t)
	docs := store.DocumentStore().(*documentStore)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	docs.now = func() time.Time { return fixed }
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, testDocument("d1", "Viejo", domain.CategoryCivilCode, "civil_code")))

	title := "Nuevo"
	caseLaw := domain.CategoryCaseLaw
	updated, err := docs.Update(ctx, "d1", domain.DocumentUpdate{Title: &title, Category: &caseLaw})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", updated.Title)
	assert.True(t, updated.Metadata.HasTag("case_law"))
	assert.True(t, fixed.Equal(updated.UpdatedAt))

	got, err := docs.FindByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryCaseLaw, got.Category)
	assert.Equal(t, updated.Metadata.Tags, got.Metadata.Tags)

	bad := domain.Category("NOPE")
	_, err = docs.Update(ctx, "d1", domain.DocumentUpdate{Category: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrStorage)

	_, err = docs.Update(ctx, "missing", domain.DocumentUpdate{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Delete(t *testing.T) {
	docs := setupTestStore(t).DocumentStore()
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, testDocument("d1", "A", domain.CategoryCivilCode, "t")))
	require.NoError(t, docs.Delete(ctx, "d1"))
	assert.ErrorIs(t, docs.Delete(ctx, "d1"), domain.ErrNotFound)

	tagged, err := docs.FindByTags(ctx, []string{"t"})
	require.NoError(t, err)
	assert.Empty(t, tagged)
}

func TestQueryStore(t *testing.T) {
	queries := setupTestStore(t).QueryStore()
	ctx := context.Background()
	civil := domain.CategoryCivilCode
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, queries.SaveQuery(ctx, &domain.Query{
		ID: "q1", Question: "¿Qué es la responsabilidad parental?", Type: domain.QueryTypeLegalQuestion,
		UserID: "u1", Category: &civil, CreatedAt: now,
	}))
	require.NoError(t, queries.SaveQuery(ctx, &domain.Query{
		ID: "q2", Question: "otra", Type: domain.QueryTypeCaseAnalysis, UserID: "u2", CreatedAt: now,
	}))

	q, err := queries.FindQuery(ctx, "q1")
	require.NoError(t, err)
	require.NotNil(t, q.Category)
	assert.Equal(t, civil, *q.Category)
	assert.Equal(t, domain.QueryTypeLegalQuestion, q.Type)

	_, err = queries.FindQuery(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp := &domain.QueryResponse{
		ID: "r1", QueryID: "q1", Answer: "Es el conjunto de deberes.", Confidence: 0.825,
		Sources:   []domain.DocumentReference{{DocumentID: "d1", Title: "CCyC", RelevanceScore: 1, RelevantSections: []string{"Art. 638"}}},
		CreatedAt: now,
	}
	require.NoError(t, queries.SaveResponse(ctx, resp))
	require.NoError(t, queries.SaveResponse(ctx, &domain.QueryResponse{ID: "r2", QueryID: "q1", CreatedAt: now}))

	err = queries.SaveResponse(ctx, &domain.QueryResponse{ID: "r3", QueryID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	responses, err := queries.FindResponsesByQuery(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "r1", responses[0].ID)
	assert.Equal(t, resp.Sources, responses[0].Sources)
	assert.InDelta(t, 0.825, responses[0].Confidence, 1e-9)
	assert.Empty(t, responses[1].Sources)

	all, err := queries.ListQueries(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := queries.ListQueries(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "q2", mine[0].ID)
	assert.Nil(t, mine[0].Category)
}

func TestWritingStore(t *testing.T) {
	writings := setupTestStore(t).WritingStore()
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, writings.SaveWriting(ctx, &domain.Writing{
		ID: "w1", Title: "Demanda por daños", Prompt: "Redactar", Type: domain.DocumentTypeComplaint,
		UserID: "u1", CreatedAt: now,
	}))

	w, err := writings.FindWriting(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeComplaint, w.Type)
	assert.Nil(t, w.Category)

	_, err = writings.FindWriting(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sections := []domain.Section{
		{Title: "HECHOS", Content: "El actor...", Order: 1},
		{Title: "PETITORIO", Content: "Se solicita", Order: 2},
	}
	require.NoError(t, writings.SaveResponse(ctx, &domain.WritingResponse{
		ID: "r1", WritingID: "w1", Content: "HECHOS\nEl actor...", Sections: sections, Confidence: 0.3, CreatedAt: now,
	}))
	assert.ErrorIs(t, writings.SaveResponse(ctx, &domain.WritingResponse{ID: "r2", WritingID: "x"}), domain.ErrNotFound)

	responses, err := writings.FindResponsesByWriting(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, sections, responses[0].Sections)
	assert.Empty(t, responses[0].Sources)

	list, err := writings.ListWritings(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = writings.ListWritings(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, list)
}
