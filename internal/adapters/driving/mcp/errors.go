// Package mcp provides an MCP (Model Context Protocol) server adapter for Lexa.
// It lets AI assistants search the legal library, ask grounded questions and
// draft or review legal documents.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
