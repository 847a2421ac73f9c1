package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Search indexed documents", searchCmd.Short)
}

func TestSearchCmd_Long(t *testing.T) {
	assert.Contains(t, searchCmd.Long, "Keyword retrieval")
	assert.Contains(t, searchCmd.Long, "retrieval.mode = vector")
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute("search", "homicidio")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Código Penal (0.75)")
	assert.Contains(t, out, "> ARTÍCULO 79.")
	assert.Equal(t, "homicidio", ts.search.lastQuery)
	assert.Equal(t, domain.DefaultSearchLimit, ts.search.lastOpts.Limit)
	assert.Nil(t, ts.search.lastOpts.Category)
}

func TestSearchCmd_LimitAndCategory(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	_, err := execute("search", "--limit", "3", "--category", "penal_code", "homicidio")

	require.NoError(t, err)
	assert.Equal(t, 3, ts.search.lastOpts.Limit)
	require.NotNil(t, ts.search.lastOpts.Category)
	assert.Equal(t, domain.CategoryPenalCode, *ts.search.lastOpts.Category)
}

func TestSearchCmd_InvalidCategory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("search", "--category", "TAX_CODE", "iva")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "PENAL_CODE")
}

func TestSearchCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "--json", "homicidio")

	require.NoError(t, err)
	var refs []domain.DocumentReference
	require.NoError(t, json.Unmarshal([]byte(out), &refs))
	require.Len(t, refs, 1)
	assert.Equal(t, "cp", refs[0].DocumentID)
}

func TestSearchCmd_NoResults(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.search.refs = nil

	out, err := execute("search", "nada")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.search.err = errMock

	_, err := execute("search", "homicidio")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupNoServices()
	defer cleanup()

	_, err := execute("search", "homicidio")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}
