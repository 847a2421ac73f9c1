package driving

import (
	"context"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// AskRequest is the input of QueryService.Ask.
type AskRequest struct {
	Question string
	Context  string
	Type     domain.QueryType
	UserID   string
	Category *domain.Category
}

// QueryService answers legal questions.
// Operations never return Go errors; failures are reported in the Result.
type QueryService interface {
	// Ask validates, persists and answers a question.
	Ask(ctx context.Context, req AskRequest) domain.Result[domain.QueryResponse]

	// Get returns a stored query with its responses.
	Get(ctx context.Context, id string) domain.Result[domain.QueryRecord]

	// History lists stored queries for a user.
	History(ctx context.Context, userID string) domain.Result[[]domain.Query]
}

// DraftRequest is the input of WritingService.Generate.
type DraftRequest struct {
	Title    string
	Prompt   string
	Context  string
	Type     domain.DocumentType
	UserID   string
	Category *domain.Category
}

// WritingService drafts and reviews legal documents.
// Operations never return Go errors; failures are reported in the Result.
type WritingService interface {
	// Generate validates, persists and drafts a document.
	Generate(ctx context.Context, req DraftRequest) domain.Result[domain.WritingResponse]

	// Validate reviews a document's content.
	Validate(ctx context.Context, content string) domain.Result[domain.ValidationReport]

	// Get returns a stored writing request with its responses.
	Get(ctx context.Context, id string) domain.Result[domain.WritingRecord]

	// History lists stored writing requests for a user.
	History(ctx context.Context, userID string) domain.Result[[]domain.Writing]
}
