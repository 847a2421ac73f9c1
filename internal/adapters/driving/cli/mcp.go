package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Tools: search, ask_legal_question, draft_legal_document and
validate_legal_document. Indexed documents are exposed as lexa://documents
resources.

Use --addr to serve the streamable HTTP transport instead, for example to
debug with MCP Inspector. 'lexa serve --mcp' serves the same endpoint next to
the JSON API.

Examples:
  # Stdio mode (default, for Claude Desktop)
  lexa mcp serve

  # HTTP mode
  lexa mcp serve --addr 127.0.0.1:8090

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "lexa": {
        "command": "/path/to/lexa",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().String("addr", "", "serve over HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}

	server, err := mcp.NewServer(mcpPorts())
	if err != nil {
		return err
	}

	if addr == "" {
		return server.Run(cmd.Context())
	}
	persistenceNote(cmd)
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}

// mcpPorts collects whichever services are configured. Tools backed by a
// missing service are left unregistered.
func mcpPorts() *mcp.Ports {
	return &mcp.Ports{
		Search:  searchService,
		Library: libraryService,
		Query:   queryService,
		Writing: writingService,
	}
}
