package driving

import (
	"context"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// LibraryService manages the collection of ingested legal documents.
type LibraryService interface {
	// Index ingests a file under the ingestion root and stores it.
	Index(ctx context.Context, sourceRef string, category domain.Category) (*domain.Document, error)

	// IndexBytes ingests uploaded content and stores it.
	IndexBytes(ctx context.Context, fileName string, data []byte, category domain.Category) (*domain.Document, error)

	// IndexBatch ingests and stores several files. Failures are reported
	// per item; the returned slice matches the input order.
	IndexBatch(ctx context.Context, items []domain.BatchItem) []domain.BatchItemResult

	// IndexDirectory discovers every matching file under dir (relative to
	// the ingestion root) and indexes them with one category.
	IndexDirectory(ctx context.Context, dir string, category domain.Category) ([]domain.BatchItemResult, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns documents matching the filter, in insertion order.
	List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)

	// Update applies a partial update.
	Update(ctx context.Context, id string, update domain.DocumentUpdate) (*domain.Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, id string) error

	// Stats returns document counts.
	Stats(ctx context.Context) (*domain.LibraryStats, error)
}
