package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

func TestDocumentCmd_Use(t *testing.T) {
	assert.Equal(t, "document", documentCmd.Use)
}

func TestDocumentCmd_Short(t *testing.T) {
	assert.Equal(t, "Manage indexed documents", documentCmd.Short)
}

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	commands := documentCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "update")
	assert.Contains(t, commandNames, "delete")
	assert.Contains(t, commandNames, "stats")
}

func TestDocumentListCmd_RejectsArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("document", "list", "extra")

	assert.Error(t, err)
}

func TestDocumentListCmd_Lists(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("document", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Código Penal")
	assert.Contains(t, out, "CIVIL_CODE")
	assert.Contains(t, out, "Total: 2 documents")
}

func TestDocumentListCmd_Filters(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute("document", "list", "--category", "penal_code", "--tags", "penal, ,codigo", "-q", "homicidio")

	require.NoError(t, err)
	require.NotNil(t, ts.library.lastFilter.Category)
	assert.Equal(t, domain.CategoryPenalCode, *ts.library.lastFilter.Category)
	assert.Equal(t, []string{"penal", "codigo"}, ts.library.lastFilter.Tags)
	assert.Equal(t, "homicidio", ts.library.lastFilter.Text)
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocumentListCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("document", "list", "--json")

	require.NoError(t, err)
	var docs []domain.Document
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	assert.Len(t, docs, 2)
}

func TestDocumentListCmd_EmptyList(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.library.docs = nil

	out, err := execute("document", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents found.")
}

func TestDocumentGetCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("document", "get")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentGetCmd_ShowsMetadata(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("document", "get", "cp")

	require.NoError(t, err)
	assert.Contains(t, out, "Document: cp")
	assert.Contains(t, out, "cp.pdf (2048 bytes)")
	assert.Contains(t, out, "Pages:        12")
	assert.Contains(t, out, "Jurisdiction: Argentina")
	assert.Contains(t, out, "2025-03-01 10:30:00")
}

func TestDocumentGetCmd_Content(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("document", "get", "cp", "--content")

	require.NoError(t, err)
	assert.Equal(t, "ARTÍCULO 1. Código Penal\n", out)
}

func TestDocumentGetCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("document", "get", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get document")
}

func TestDocumentUpdateCmd_OnlyChangedFlags(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute("document", "update", "cp", "--title", "CP", "--tags", "penal,vigente", "--category", "case_law")

	require.NoError(t, err)
	assert.Contains(t, out, "Document cp updated.")
	update := ts.library.lastUpdate
	require.NotNil(t, update.Title)
	assert.Equal(t, "CP", *update.Title)
	require.NotNil(t, update.Tags)
	assert.Equal(t, []string{"penal", "vigente"}, *update.Tags)
	require.NotNil(t, update.Category)
	assert.Equal(t, domain.CategoryCaseLaw, *update.Category)
	assert.Nil(t, update.Language)
	assert.Nil(t, update.Summary)
}

func TestDocumentUpdateCmd_NothingToUpdate(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("document", "update", "cp")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestDocumentDeleteCmd_Deletes(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()

	out, err := execute("document", "delete", "cp")

	require.NoError(t, err)
	assert.Contains(t, out, "Document cp deleted.")
	assert.Len(t, ts.library.docs, 1)
}

func TestDocumentDeleteCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("document", "delete", "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete document")
}

func TestDocumentStatsCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("document", "stats")

	require.NoError(t, err)
	assert.Contains(t, out, "Documents: 2")
	assert.Contains(t, out, "PENAL_CODE")
	assert.NotContains(t, out, "CASE_LAW")
}

func TestDocumentCmds_ServiceNotConfigured(t *testing.T) {
	tests := [][]string{
		{"document", "list"},
		{"document", "get", "cp"},
		{"document", "update", "cp", "--title", "x"},
		{"document", "delete", "cp"},
		{"document", "stats"},
	}

	for _, args := range tests {
		t.Run(args[1], func(t *testing.T) {
			cleanup := setupNoServices()
			defer cleanup()

			_, err := execute(args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "library service not configured")
		})
	}
}

func TestDocumentCmds_ServiceError(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"document", "list"}, "failed to list documents"},
		{[]string{"document", "get", "cp"}, "failed to get document"},
		{[]string{"document", "stats"}, "failed to get stats"},
	}

	for _, tt := range tests {
		t.Run(tt.args[1], func(t *testing.T) {
			ts, cleanup := setupTestServicesWith()
			defer cleanup()
			ts.library.err = errMock

			_, err := execute(tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.ErrorIs(t, err, errMock)
		})
	}
}
