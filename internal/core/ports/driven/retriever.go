package driven

import (
	"context"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// Retriever finds documents relevant to a query string.
//
// Results are ordered by descending relevance; ties keep document store
// insertion order. Documents scoring zero are omitted. An empty result
// is not an error.
type Retriever interface {
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.DocumentReference, error)
}
