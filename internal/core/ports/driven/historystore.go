package driven

import (
	"context"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// QueryStore persists legal questions and the answers generated for them.
// A query may have several responses.
type QueryStore interface {
	// SaveQuery stores a query.
	SaveQuery(ctx context.Context, q *domain.Query) error

	// SaveResponse stores a response. The referenced query must exist.
	SaveResponse(ctx context.Context, r *domain.QueryResponse) error

	// FindQuery retrieves a query by ID.
	// Returns domain.ErrNotFound if it does not exist.
	FindQuery(ctx context.Context, id string) (*domain.Query, error)

	// FindResponsesByQuery returns responses for a query, oldest first.
	FindResponsesByQuery(ctx context.Context, queryID string) ([]domain.QueryResponse, error)

	// ListQueries returns queries for a user, oldest first.
	// An empty userID lists every query.
	ListQueries(ctx context.Context, userID string) ([]domain.Query, error)
}

// WritingStore persists drafting requests and the drafts generated for them.
// A writing may have several responses.
type WritingStore interface {
	// SaveWriting stores a writing request.
	SaveWriting(ctx context.Context, w *domain.Writing) error

	// SaveResponse stores a response. The referenced writing must exist.
	SaveResponse(ctx context.Context, r *domain.WritingResponse) error

	// FindWriting retrieves a writing request by ID.
	// Returns domain.ErrNotFound if it does not exist.
	FindWriting(ctx context.Context, id string) (*domain.Writing, error)

	// FindResponsesByWriting returns responses for a writing, oldest first.
	FindResponsesByWriting(ctx context.Context, writingID string) ([]domain.WritingResponse, error)

	// ListWritings returns writings for a user, oldest first.
	// An empty userID lists every writing.
	ListWritings(ctx context.Context, userID string) ([]domain.Writing, error)
}
