package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/tui"
)

func TestTUICmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_HelpOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("tui", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "interactive terminal user interface")
	assert.Contains(t, out, "Controls:")
	assert.Contains(t, out, "category filter")
}

func TestTUICmd_RejectsArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("tui", "extra")

	assert.Error(t, err)
}

func TestNewTUIApp_UsesServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	app, err := newTUIApp()

	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestNewTUIApp_WithoutQueryService(t *testing.T) {
	_, cleanup := setupTestServicesWith()
	defer cleanup()
	queryService = nil

	app, err := newTUIApp()

	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestNewTUIApp_MissingServices(t *testing.T) {
	cleanup := setupNoServices()
	defer cleanup()

	_, err := newTUIApp()

	require.Error(t, err)
	assert.ErrorIs(t, err, tui.ErrMissingSearchService)
	assert.Contains(t, err.Error(), "failed to create TUI")
}
