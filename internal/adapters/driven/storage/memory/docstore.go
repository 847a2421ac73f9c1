package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Listings follow first-insertion order; replacing a document keeps its position.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	order     []string
	now       func() time.Time
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		now:       time.Now,
	}
}

// Save stores or replaces a document.
func (s *DocumentStore) Save(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[doc.ID]; !exists {
		s.order = append(s.order, doc.ID)
	}
	s.documents[doc.ID] = cloneDocument(*doc)
	return nil
}

// FindByID retrieves a document by ID.
func (s *DocumentStore) FindByID(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc = cloneDocument(doc)
	return &doc, nil
}

// FindByCategory returns all documents in a category.
func (s *DocumentStore) FindByCategory(_ context.Context, category domain.Category) ([]domain.Document, error) {
	return s.filter(func(d *domain.Document) bool {
		return d.Category == category
	}), nil
}

// FindByTags returns documents carrying at least one of the tags.
func (s *DocumentStore) FindByTags(_ context.Context, tags []string) ([]domain.Document, error) {
	return s.filter(func(d *domain.Document) bool {
		for _, t := range tags {
			if d.Metadata.HasTag(t) {
				return true
			}
		}
		return false
	}), nil
}

// FindAll returns every document.
func (s *DocumentStore) FindAll(_ context.Context) ([]domain.Document, error) {
	return s.filter(func(*domain.Document) bool { return true }), nil
}

// Update applies a partial update.
func (s *DocumentStore) Update(_ context.Context, id string, update domain.DocumentUpdate) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc = cloneDocument(doc)
	if err := update.Apply(&doc, s.now()); err != nil {
		return nil, err
	}
	s.documents[id] = doc
	out := cloneDocument(doc)
	return &out, nil
}

// Delete removes a document.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Search returns documents whose title or content contains text.
func (s *DocumentStore) Search(_ context.Context, text string) ([]domain.Document, error) {
	needle := strings.ToLower(text)
	return s.filter(func(d *domain.Document) bool {
		return strings.Contains(strings.ToLower(d.Title), needle) ||
			strings.Contains(strings.ToLower(d.Content), needle)
	}), nil
}

func (s *DocumentStore) filter(keep func(*domain.Document) bool) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		doc := s.documents[id]
		if keep(&doc) {
			out = append(out, cloneDocument(doc))
		}
	}
	return out
}

// cloneDocument copies the reference-typed fields so callers cannot
// mutate stored state.
func cloneDocument(doc domain.Document) domain.Document {
	if doc.Metadata.Tags != nil {
		doc.Metadata.Tags = append([]string(nil), doc.Metadata.Tags...)
	}
	if doc.Metadata.PageCount != nil {
		n := *doc.Metadata.PageCount
		doc.Metadata.PageCount = &n
	}
	return doc
}
