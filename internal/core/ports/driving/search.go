package driving

import (
	"context"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// SearchService provides document retrieval to external actors.
type SearchService interface {
	// Search returns documents relevant to the query, best first.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.DocumentReference, error)
}
