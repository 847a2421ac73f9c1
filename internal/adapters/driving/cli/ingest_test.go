package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

func TestIngestCmd_RequiresPath(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("ingest")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIngestCmd_SingleFile(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute("ingest", "codigo_penal.pdf", "--category", "penal_code")

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed: Nuevo documento")
	assert.Contains(t, out, "Category: PENAL_CODE")
	assert.Contains(t, out, "Pages:    12")
	assert.NotContains(t, out, "storage is in memory")
	require.Len(t, ts.library.indexed, 1)
	assert.Equal(t, domain.BatchItem{Source: "codigo_penal.pdf", Category: domain.CategoryPenalCode}, ts.library.indexed[0])
}

func TestIngestCmd_DefaultCategoryIsOther(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	_, err := execute("ingest", "nota.pdf")

	require.NoError(t, err)
	require.Len(t, ts.library.indexed, 1)
	assert.Equal(t, domain.CategoryOther, ts.library.indexed[0].Category)
}

func TestIngestCmd_SingleFileError(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.library.err = domain.ErrExtraction

	_, err := execute("ingest", "scan.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "failed to ingest scan.pdf")
}

func TestIngestCmd_BatchReportsEachItem(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("ingest", "a.pdf", "broken.pdf", "b.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 documents failed")
	assert.Contains(t, out, "OK      a.pdf -> doc-new")
	assert.Contains(t, out, "FAILED  broken.pdf: mock failure")
	assert.Contains(t, out, "Indexed 2 of 3 documents.")
}

func TestIngestCmd_MemoryStorageNote(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	current.Persistent = false

	out, err := execute("ingest", "a.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "storage is in memory")
}

func TestIngestCmd_InvalidCategory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("ingest", "a.pdf", "--category", "statute")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestIngestDirCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("ingest-dir", "fallos", "-c", "CASE_LAW")

	require.NoError(t, err)
	assert.Contains(t, out, "OK      fallos/a.pdf")
	assert.Contains(t, out, "Indexed 1 of 1 documents.")
}

func TestIngestDirCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("ingest-dir", "empty")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents found in empty.")
}

func TestIngestDirCmd_ScanError(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.library.err = domain.ErrValidation

	_, err := execute("ingest-dir", "../outside")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan ../outside")
}

func TestIngestCmds_ServiceNotConfigured(t *testing.T) {
	for _, args := range [][]string{{"ingest", "a.pdf"}, {"ingest-dir"}} {
		t.Run(args[0], func(t *testing.T) {
			cleanup := setupNoServices()
			defer cleanup()

			_, err := execute(args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "library service not configured")
		})
	}
}

func TestIngestDirCmd_WorkersFlagOverridesConfig(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, ingestDirCmd.Flags().Set("workers", "8"))

	assert.Equal(t, map[string]string{"ingestion.workers": "8"}, flagOverrides(ingestDirCmd))
	assert.Empty(t, flagOverrides(ingestCmd))
}
