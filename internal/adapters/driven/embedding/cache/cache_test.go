package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmbedder struct {
	calls      int
	batchCalls [][]string
	err        error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []float32{float32(len(text))}, nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls = append(m.batchCalls, texts)
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int            { return 1 }
func (m *mockEmbedder) ModelName() string          { return "mock" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

func TestWrap_Disabled(t *testing.T) {
	next := &mockEmbedder{}
	assert.Same(t, next, Wrap(next, 0, time.Minute))
	assert.Same(t, next, Wrap(next, 10, 0))
	assert.Nil(t, Wrap(nil, 10, time.Minute))
}

func TestEmbed_CachesAndClones(t *testing.T) {
	next := &mockEmbedder{}
	e := Wrap(next, 10, time.Minute)

	first, err := e.Embed(context.Background(), "abc")
	require.NoError(t, err)
	first[0] = 99

	second, err := e.Embed(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []float32{3}, second)
	assert.Equal(t, 1, next.calls)
}

func TestEmbed_ErrorNotCached(t *testing.T) {
	next := &mockEmbedder{err: errors.New("down")}
	e := Wrap(next, 10, time.Minute)

	_, err := e.Embed(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, 0, e.(*Embedder).Len())
}

func TestEmbedBatch_OnlyMisses(t *testing.T) {
	next := &mockEmbedder{}
	e := Wrap(next, 10, time.Minute)

	_, err := e.Embed(context.Background(), "bb")
	require.NoError(t, err)

	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "bb", "cccc"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}, {4}}, vecs)
	require.Len(t, next.batchCalls, 1)
	assert.Equal(t, []string{"a", "cccc"}, next.batchCalls[0])

	_, err = e.EmbedBatch(context.Background(), []string{"a", "cccc"})
	require.NoError(t, err)
	assert.Len(t, next.batchCalls, 1)
}

func TestClose_Purges(t *testing.T) {
	e := Wrap(&mockEmbedder{}, 10, time.Minute).(*Embedder)
	_, _ = e.Embed(context.Background(), "x")
	require.Equal(t, 1, e.Len())

	require.NoError(t, e.Close())
	assert.Equal(t, 0, e.Len())
}
