package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Lexa resources.
	uriScheme = "lexa://"
)

// registerResources registers the library resources when a library port is set.
func (s *Server) registerResources() {
	if s.ports.Library == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "All indexed legal documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "categories/{category}/documents",
		Name:        "category-documents",
		Description: "Indexed documents in one category",
		MIMEType:    "application/json",
	}, s.handleCategoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Extracted text of a specific document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

type docInfo struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Category domain.Category `json:"category"`
	URI      string          `json:"uri"`
	Tags     []string        `json:"tags"`
}

func (s *Server) listDocuments(ctx context.Context, uri string, filter domain.DocumentFilter) (*mcp.ReadResourceResult, error) {
	docs, err := s.ports.Library.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:       docs[i].ID,
			Title:    docs[i].Title,
			Category: docs[i].Category,
			URI:      documentURI(docs[i].ID),
			Tags:     nonNil(docs[i].Metadata.Tags),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentsResource lists every document.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return s.listDocuments(ctx, req.Params.URI, domain.DocumentFilter{})
}

// handleCategoryResource lists the documents of one category.
func (s *Server) handleCategoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	raw := extractCategory(req.Params.URI)
	if raw == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	category, err := domain.ParseCategory(strings.ToUpper(raw))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.listDocuments(ctx, req.Params.URI, domain.DocumentFilter{Category: &category})
}

// handleDocumentContentResource returns the text of a specific document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Library.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document content: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Content,
		}},
	}, nil
}

func documentURI(id string) string {
	return uriScheme + "documents/" + id
}

// extractCategory extracts the category from lexa://categories/{category}/documents.
func extractCategory(uri string) string {
	const prefix = uriScheme + "categories/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

// extractDocumentID extracts the document ID from lexa://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
