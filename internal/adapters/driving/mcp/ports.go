package mcp

import (
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Search provides document retrieval.
	Search driving.SearchService

	// Library exposes stored documents as resources.
	Library driving.LibraryService

	// Query answers legal questions.
	Query driving.QueryService

	// Writing drafts and reviews legal documents.
	Writing driving.WritingService
}

// Validate ensures all required ports are set.
// Only Search is required; tools and resources backed by a missing port
// are not registered.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
