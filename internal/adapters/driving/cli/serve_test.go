package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_StopsWhenContextCancelled(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.settings.settings.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"serve"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Lexa API listening on http://127.0.0.1:0/api/v1")
}

func TestServeCmd_WithMCP(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.settings.settings.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"serve", "--mcp"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "MCP endpoint at http://127.0.0.1:0/mcp")
}

func TestServeCmd_SettingsError(t *testing.T) {
	ts, cleanup := setupTestServicesWith()
	defer cleanup()
	ts.settings.err = errMock

	_, err := execute("serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading settings")
}

func TestServeCmd_ServicesNotConfigured(t *testing.T) {
	cleanup := setupNoServices()
	defer cleanup()

	_, err := execute("serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestServeCmd_MissingPorts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	writingService = nil

	_, err := execute("serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all ports are required")
}

func TestServeCmd_AddrFlagOverridesConfig(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, serveCmd.Flags().Set("addr", ":9090"))

	assert.Equal(t, map[string]string{"server.addr": ":9090"}, flagOverrides(serveCmd))
}

func TestMCPCmd_HasServe(t *testing.T) {
	names := make([]string, 0)
	for _, c := range mcpCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")

	flag := mcpServeCmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)
}

func TestMCPServeCmd_ServicesNotConfigured(t *testing.T) {
	cleanup := setupNoServices()
	defer cleanup()

	_, err := execute("mcp", "serve")

	assert.Error(t, err)
}
