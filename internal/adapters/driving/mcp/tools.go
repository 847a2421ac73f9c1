package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"the search query to find legal documents"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Category string `json:"category,omitempty" jsonschema:"restrict to one category: PENAL_CODE, CIVIL_CODE, COMMERCIAL_CODE, CASE_LAW, LEGAL_OPINION or OTHER"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SourceOutput `json:"results"`
	Count   int            `json:"count"`
}

// SourceOutput is a document reference.
type SourceOutput struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	URI        string   `json:"uri"`
	Score      float64  `json:"score"`
	Sections   []string `json:"sections,omitempty"`
}

// AskInput is the input schema for the ask_legal_question tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the legal question to answer"`
	Context  string `json:"context,omitempty" jsonschema:"additional facts about the case"`
	Type     string `json:"type,omitempty" jsonschema:"LEGAL_QUESTION, DOCUMENT_SEARCH, CASE_ANALYSIS or STATUTE_INTERPRETATION"`
	Category string `json:"category,omitempty" jsonschema:"restrict retrieval to one category"`
}

// AskOutput is the output schema for the ask_legal_question tool.
type AskOutput struct {
	QueryID    string         `json:"query_id"`
	Answer     string         `json:"answer"`
	Reasoning  string         `json:"reasoning"`
	Confidence float64        `json:"confidence"`
	Sources    []SourceOutput `json:"sources"`
}

// DraftInput is the input schema for the draft_legal_document tool.
type DraftInput struct {
	Title    string `json:"title" jsonschema:"title of the document to draft"`
	Prompt   string `json:"prompt" jsonschema:"drafting instructions"`
	Context  string `json:"context,omitempty" jsonschema:"additional facts about the case"`
	Type     string `json:"type,omitempty" jsonschema:"COMPLAINT, MOTION, BRIEF, CONTRACT, LEGAL_OPINION, DEMAND_LETTER or OTHER"`
	Category string `json:"category,omitempty" jsonschema:"restrict retrieval to one category"`
}

// DraftOutput is the output schema for the draft_legal_document tool.
type DraftOutput struct {
	WritingID  string           `json:"writing_id"`
	Content    string           `json:"content"`
	Sections   []domain.Section `json:"sections"`
	Confidence float64          `json:"confidence"`
	Sources    []SourceOutput   `json:"sources"`
}

// ValidateInput is the input schema for the validate_legal_document tool.
type ValidateInput struct {
	Content string `json:"content" jsonschema:"full text of the document to review"`
}

// ValidateOutput is the output schema for the validate_legal_document tool.
type ValidateOutput struct {
	IsValid     bool     `json:"is_valid"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Analysis    string   `json:"analysis"`
}

// registerTools registers the tool handlers backed by available ports.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the indexed legal documents (codes, case law, opinions)",
	}, s.handleSearch)

	if s.ports.Query != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask_legal_question",
			Description: "Answer a legal question grounded in the indexed documents, with sources and reasoning",
		}, s.handleAsk)
	}

	if s.ports.Writing != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "draft_legal_document",
			Description: "Draft a legal document grounded in the indexed documents",
		}, s.handleDraft)
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "validate_legal_document",
			Description: "Review a legal document for validity, issues and suggestions",
		}, s.handleValidate)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	opts := domain.SearchOptions{Limit: input.Limit, Category: category}
	refs, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	log.Debug("search %q returned %d results", input.Query, len(refs))

	return nil, SearchOutput{Results: sourceOutputs(refs), Count: len(refs)}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, AskOutput{}, err
	}
	queryType := domain.QueryTypeLegalQuestion
	if input.Type != "" {
		queryType = domain.QueryType(strings.ToUpper(input.Type))
	}

	result := s.ports.Query.Ask(ctx, driving.AskRequest{
		Question: input.Question,
		Context:  input.Context,
		Type:     queryType,
		Category: category,
	})
	if !result.Success {
		log.Warn("ask failed: %s", result.Message)
		return nil, AskOutput{}, errors.New(result.Message)
	}

	resp := result.Data
	return nil, AskOutput{
		QueryID:    resp.QueryID,
		Answer:     resp.Answer,
		Reasoning:  resp.Reasoning,
		Confidence: resp.Confidence,
		Sources:    sourceOutputs(resp.Sources),
	}, nil
}

func (s *Server) handleDraft(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DraftInput,
) (*mcp.CallToolResult, DraftOutput, error) {
	category, err := parseCategory(input.Category)
	if err != nil {
		return nil, DraftOutput{}, err
	}
	docType := domain.DocumentTypeOther
	if input.Type != "" {
		docType = domain.DocumentType(strings.ToUpper(input.Type))
	}

	result := s.ports.Writing.Generate(ctx, driving.DraftRequest{
		Title:    input.Title,
		Prompt:   input.Prompt,
		Context:  input.Context,
		Type:     docType,
		Category: category,
	})
	if !result.Success {
		return nil, DraftOutput{}, errors.New(result.Message)
	}

	resp := result.Data
	sections := resp.Sections
	if sections == nil {
		sections = []domain.Section{}
	}
	return nil, DraftOutput{
		WritingID:  resp.WritingID,
		Content:    resp.Content,
		Sections:   sections,
		Confidence: resp.Confidence,
		Sources:    sourceOutputs(resp.Sources),
	}, nil
}

func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	result := s.ports.Writing.Validate(ctx, input.Content)
	if !result.Success {
		return nil, ValidateOutput{}, errors.New(result.Message)
	}

	report := result.Data
	return nil, ValidateOutput{
		IsValid:     report.IsValid,
		Issues:      nonNil(report.Issues),
		Suggestions: nonNil(report.Suggestions),
		Analysis:    report.Analysis,
	}, nil
}

func parseCategory(s string) (*domain.Category, error) {
	if s == "" {
		return nil, nil
	}
	c, err := domain.ParseCategory(strings.ToUpper(s))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func sourceOutputs(refs []domain.DocumentReference) []SourceOutput {
	out := make([]SourceOutput, len(refs))
	for i, r := range refs {
		out[i] = SourceOutput{
			DocumentID: r.DocumentID,
			Title:      r.Title,
			URI:        documentURI(r.DocumentID),
			Score:      r.RelevanceScore,
			Sections:   r.RelevantSections,
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
