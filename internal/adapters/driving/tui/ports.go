// Package tui provides an interactive terminal user interface for lexa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides document retrieval.
	Search driving.SearchService

	// Library manages indexed documents.
	Library driving.LibraryService

	// Query answers legal questions. Optional: the ask view reports it
	// as unavailable when nil.
	Query driving.QueryService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
