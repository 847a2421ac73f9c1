package driven

import (
	"context"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// DocumentStore persists ingested documents.
// Implementations must be safe for concurrent use. Saving an existing ID
// replaces it (last write wins). Listings return documents in insertion order.
type DocumentStore interface {
	// Save stores or replaces a document.
	Save(ctx context.Context, doc *domain.Document) error

	// FindByID retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	FindByID(ctx context.Context, id string) (*domain.Document, error)

	// FindByCategory returns all documents in a category.
	FindByCategory(ctx context.Context, category domain.Category) ([]domain.Document, error)

	// FindByTags returns documents carrying at least one of the tags.
	FindByTags(ctx context.Context, tags []string) ([]domain.Document, error)

	// FindAll returns every document.
	FindAll(ctx context.Context) ([]domain.Document, error)

	// Update applies a partial update and returns the stored result.
	// Returns domain.ErrNotFound if the document does not exist.
	Update(ctx context.Context, id string, update domain.DocumentUpdate) (*domain.Document, error)

	// Delete removes a document.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// Search returns documents whose title or content contains text,
	// case-insensitively. It is a plain listing filter, not ranked retrieval.
	Search(ctx context.Context, text string) ([]domain.Document, error)
}
