package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService ingests documents and manages the stored collection.
type LibraryService struct {
	pipeline *IngestionPipeline
	docStore driven.DocumentStore
}

// NewLibraryService creates a new library service.
func NewLibraryService(pipeline *IngestionPipeline, docStore driven.DocumentStore) *LibraryService {
	return &LibraryService{pipeline: pipeline, docStore: docStore}
}

// Index ingests a file under the ingestion root and stores it.
func (s *LibraryService) Index(ctx context.Context, sourceRef string, category domain.Category) (*domain.Document, error) {
	doc, err := s.pipeline.Ingest(ctx, sourceRef, category)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", sourceRef, err)
	}
	if err := s.docStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	logger.Info("Indexed %s as %s (%s)", sourceRef, doc.ID, doc.Category)
	return doc, nil
}

// IndexBytes ingests uploaded content and stores it.
func (s *LibraryService) IndexBytes(
	ctx context.Context, fileName string, data []byte, category domain.Category,
) (*domain.Document, error) {
	doc, err := s.pipeline.IngestBytes(ctx, fileName, data, category)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", fileName, err)
	}
	if err := s.docStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	logger.Info("Indexed upload %s as %s (%s)", fileName, doc.ID, doc.Category)
	return doc, nil
}

// IndexBatch ingests every item and stores each success.
// A failed save is recorded on that item only.
func (s *LibraryService) IndexBatch(ctx context.Context, items []domain.BatchItem) []domain.BatchItemResult {
	results := s.pipeline.IngestBatch(ctx, items)
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if err := s.docStore.Save(ctx, results[i].Document); err != nil {
			results[i].Err = fmt.Errorf("saving document: %w", err)
			results[i].Document = nil
		}
	}
	return results
}

// IndexDirectory discovers matching files below dir and indexes them.
func (s *LibraryService) IndexDirectory(
	ctx context.Context, dir string, category domain.Category,
) ([]domain.BatchItemResult, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}

	paths, err := s.pipeline.Discover(ctx, dir)
	if err != nil {
		return nil, err
	}

	items := make([]domain.BatchItem, len(paths))
	for i, p := range paths {
		items[i] = domain.BatchItem{Source: p, Category: category}
	}
	return s.IndexBatch(ctx, items), nil
}

// Get retrieves a document by ID.
func (s *LibraryService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.docStore.FindByID(ctx, id)
}

// List returns documents matching every set filter field.
func (s *LibraryService) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	var (
		docs []domain.Document
		err  error
	)
	switch {
	case strings.TrimSpace(filter.Text) != "":
		docs, err = s.docStore.Search(ctx, strings.TrimSpace(filter.Text))
	case filter.Category != nil:
		docs, err = s.docStore.FindByCategory(ctx, *filter.Category)
	case len(filter.Tags) > 0:
		docs, err = s.docStore.FindByTags(ctx, filter.Tags)
	default:
		docs, err = s.docStore.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	filtered := docs[:0]
	for _, doc := range docs {
		if filter.Category != nil && doc.Category != *filter.Category {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(doc.Metadata, filter.Tags) {
			continue
		}
		filtered = append(filtered, doc)
	}
	return filtered, nil
}

func hasAnyTag(m domain.Metadata, tags []string) bool {
	for _, t := range tags {
		if m.HasTag(t) {
			return true
		}
	}
	return false
}

// Update applies a partial update.
func (s *LibraryService) Update(ctx context.Context, id string, update domain.DocumentUpdate) (*domain.Document, error) {
	if update.Category != nil && !update.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *update.Category)
	}
	return s.docStore.Update(ctx, id, update)
}

// Delete removes a document.
func (s *LibraryService) Delete(ctx context.Context, id string) error {
	return s.docStore.Delete(ctx, id)
}

// Stats returns document counts per category.
func (s *LibraryService) Stats(ctx context.Context) (*domain.LibraryStats, error) {
	docs, err := s.docStore.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.LibraryStats{
		Total:      len(docs),
		ByCategory: make(map[domain.Category]int),
	}
	for _, doc := range docs {
		stats.ByCategory[doc.Category]++
	}
	return stats, nil
}
