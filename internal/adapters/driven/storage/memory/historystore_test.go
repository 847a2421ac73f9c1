package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

func TestQueryStore_ResponsesAndHistory(t *testing.T) {
	store := NewQueryStore()
	ctx := context.Background()
	now := time.Now()

	q1 := &domain.Query{ID: "q1", Question: "¿Qué es la responsabilidad parental?", Type: domain.QueryTypeLegalQuestion, UserID: "ana", CreatedAt: now}
	q2 := &domain.Query{ID: "q2", Question: "Plazo de prescripción", Type: domain.QueryTypeStatuteInterpretation, UserID: "luis", CreatedAt: now}
	require.NoError(t, store.SaveQuery(ctx, q1))
	require.NoError(t, store.SaveQuery(ctx, q2))

	require.NoError(t, store.SaveResponse(ctx, &domain.QueryResponse{ID: "r1", QueryID: "q1", Answer: "first"}))
	require.NoError(t, store.SaveResponse(ctx, &domain.QueryResponse{ID: "r2", QueryID: "q1", Answer: "second"}))

	responses, err := store.FindResponsesByQuery(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "r1", responses[0].ID)
	assert.Equal(t, "r2", responses[1].ID)

	none, err := store.FindResponsesByQuery(ctx, "q2")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	err = store.SaveResponse(ctx, &domain.QueryResponse{ID: "r3", QueryID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := store.FindQuery(ctx, "q2")
	require.NoError(t, err)
	assert.Equal(t, domain.QueryTypeStatuteInterpretation, got.Type)

	_, err = store.FindQuery(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ana, err := store.ListQueries(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, ana, 1)
	assert.Equal(t, "q1", ana[0].ID)

	all, err := store.ListQueries(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestWritingStore_ResponsesAndHistory(t *testing.T) {
	store := NewWritingStore()
	ctx := context.Background()

	w := &domain.Writing{ID: "w1", Title: "Demanda", Prompt: "Redactar demanda", Type: domain.DocumentTypeComplaint, UserID: "ana"}
	require.NoError(t, store.SaveWriting(ctx, w))

	resp := &domain.WritingResponse{
		ID:        "r1",
		WritingID: "w1",
		Content:   "1. HECHOS\nTexto",
		Sections:  []domain.Section{{Title: "1. HECHOS", Content: "Texto", Order: 1}},
	}
	require.NoError(t, store.SaveResponse(ctx, resp))

	responses, err := store.FindResponsesByWriting(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, 1, responses[0].Sections[0].Order)

	err = store.SaveResponse(ctx, &domain.WritingResponse{ID: "r2", WritingID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.FindWriting(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := store.ListWritings(ctx, "luis")
	require.NoError(t, err)
	assert.Empty(t, list)
}
