package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driving/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API on server.addr (default 127.0.0.1:8080).

Routes live under /api/v1:
  POST   /documents            upload a file (multipart: file, category)
  POST   /documents/index      index a file under the ingestion root
  POST   /documents/batch      index several files
  GET    /documents            list documents (?category, ?tags, ?q)
  GET    /documents/:id        get, PATCH to update, DELETE to remove
  GET    /search               search (?q, ?limit, ?category)
  POST   /queries              ask a question
  POST   /writings             draft a document
  POST   /writings/validate    review a document
  GET    /writings/:id/export  export the latest draft (?format=html|yaml)

With --mcp the Model Context Protocol endpoint is also served at /mcp on the
same address.

Examples:
  lexa serve
  lexa serve --addr :9090
  lexa serve --mcp`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().Bool("mcp", false, "also serve the MCP endpoint at /mcp")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Library: libraryService,
		Search:  searchService,
		Query:   queryService,
		Writing: writingService,
	})
	if err != nil {
		return err
	}

	withMCP, _ := cmd.Flags().GetBool("mcp")
	if withMCP {
		mcpServer, err := mcp.NewServer(mcpPorts())
		if err != nil {
			return err
		}
		server.Mount("/mcp", mcpServer.Handler())
	}

	persistenceNote(cmd)
	fmt.Fprintf(cmd.OutOrStdout(), "Lexa API listening on http://%s/api/v1\n", settings.Server.Addr)
	if withMCP {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP endpoint at http://%s/mcp\n", settings.Server.Addr)
	}
	return server.Run(cmd.Context(), settings.Server.Addr)
}
