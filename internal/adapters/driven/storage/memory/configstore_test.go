package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

func TestConfigStore_Set_Get(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.provider", "ollama"))

	val, ok := store.Get("llm.provider")
	assert.True(t, ok)
	assert.Equal(t, "ollama", val)
	assert.Equal(t, "ollama", store.GetString("llm.provider"))

	_, ok = store.Get("llm.model")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("retrieval.limit", 7)
	_ = store.Set("ingestion.workers", int64(3))
	_ = store.Set("llm.requests_per_second", 2.5)
	_ = store.Set("generation.strict_validity", true)
	_ = store.Set("server.addr", 8080)

	assert.Equal(t, 7, store.GetInt("retrieval.limit"))
	assert.Equal(t, 3, store.GetInt("ingestion.workers"))
	assert.Equal(t, 2, store.GetInt("llm.requests_per_second"))
	assert.InDelta(t, 2.5, store.GetFloat("llm.requests_per_second"), 1e-9)
	assert.InDelta(t, 7.0, store.GetFloat("retrieval.limit"), 1e-9)
	assert.True(t, store.GetBool("generation.strict_validity"))

	// Wrong types read as zero values.
	assert.Equal(t, "", store.GetString("server.addr"))
	assert.False(t, store.GetBool("retrieval.limit"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("storage.backend", "memory")
	_ = store.Set("llm.model", "llama3.2")

	assert.Equal(t, []string{"llm.model", "storage.backend"}, store.Keys())
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.limit", n)
			_ = store.GetInt("retrieval.limit")
			_ = store.Keys()
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Keys(), 1)
}

func TestConfigStore_StringValuesAreCoerced(t *testing.T) {
	store := NewConfigStoreWith(map[string]any{
		"retrieval.limit":            " 12 ",
		"llm.requests_per_second":    "0.5",
		"generation.strict_validity": "true",
		"ingestion.workers":          "many",
	})

	assert.Equal(t, 12, store.GetInt("retrieval.limit"))
	assert.InDelta(t, 0.5, store.GetFloat("llm.requests_per_second"), 1e-9)
	assert.True(t, store.GetBool("generation.strict_validity"))
	assert.Zero(t, store.GetInt("ingestion.workers"))
}

func TestNewConfigStoreWith_CopiesSeed(t *testing.T) {
	seed := map[string]any{"storage.backend": "sqlite"}
	store := NewConfigStoreWith(seed)

	seed["storage.backend"] = "memory"
	require.NoError(t, store.Set("storage.data_dir", "/tmp/lexa"))

	assert.Equal(t, "sqlite", store.GetString("storage.backend"))
	assert.NotContains(t, seed, "storage.data_dir")
}

func TestConfigStore_SetRejectsKeyWithoutSection(t *testing.T) {
	store := NewConfigStore()

	err := store.Set("provider", "ollama")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, store.Keys())
}
