package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

// Ensure the history stores implement their interfaces.
var (
	_ driven.QueryStore   = (*QueryStore)(nil)
	_ driven.WritingStore = (*WritingStore)(nil)
)

// QueryStore is an in-memory implementation of driven.QueryStore.
type QueryStore struct {
	mu        sync.RWMutex
	queries   map[string]domain.Query
	order     []string
	responses map[string][]domain.QueryResponse
}

// NewQueryStore creates a new in-memory query store.
func NewQueryStore() *QueryStore {
	return &QueryStore{
		queries:   make(map[string]domain.Query),
		responses: make(map[string][]domain.QueryResponse),
	}
}

// SaveQuery stores a query.
func (s *QueryStore) SaveQuery(_ context.Context, q *domain.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.queries[q.ID]; !exists {
		s.order = append(s.order, q.ID)
	}
	s.queries[q.ID] = *q
	return nil
}

// SaveResponse stores a response for an existing query.
func (s *QueryStore) SaveResponse(_ context.Context, r *domain.QueryResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queries[r.QueryID]; !ok {
		return fmt.Errorf("query %s: %w", r.QueryID, domain.ErrNotFound)
	}
	s.responses[r.QueryID] = append(s.responses[r.QueryID], *r)
	return nil
}

// FindQuery retrieves a query by ID.
func (s *QueryStore) FindQuery(_ context.Context, id string) (*domain.Query, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.queries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &q, nil
}

// FindResponsesByQuery returns responses for a query, oldest first.
func (s *QueryStore) FindResponsesByQuery(_ context.Context, queryID string) ([]domain.QueryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.QueryResponse{}, s.responses[queryID]...), nil
}

// ListQueries returns queries for a user, oldest first.
func (s *QueryStore) ListQueries(_ context.Context, userID string) ([]domain.Query, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Query{}
	for _, id := range s.order {
		q := s.queries[id]
		if userID == "" || q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

// WritingStore is an in-memory implementation of driven.WritingStore.
type WritingStore struct {
	mu        sync.RWMutex
	writings  map[string]domain.Writing
	order     []string
	responses map[string][]domain.WritingResponse
}

// NewWritingStore creates a new in-memory writing store.
func NewWritingStore() *WritingStore {
	return &WritingStore{
		writings:  make(map[string]domain.Writing),
		responses: make(map[string][]domain.WritingResponse),
	}
}

// SaveWriting stores a writing request.
func (s *WritingStore) SaveWriting(_ context.Context, w *domain.Writing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.writings[w.ID]; !exists {
		s.order = append(s.order, w.ID)
	}
	s.writings[w.ID] = *w
	return nil
}

// SaveResponse stores a response for an existing writing.
func (s *WritingStore) SaveResponse(_ context.Context, r *domain.WritingResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.writings[r.WritingID]; !ok {
		return fmt.Errorf("writing %s: %w", r.WritingID, domain.ErrNotFound)
	}
	s.responses[r.WritingID] = append(s.responses[r.WritingID], *r)
	return nil
}

// FindWriting retrieves a writing request by ID.
func (s *WritingStore) FindWriting(_ context.Context, id string) (*domain.Writing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.writings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

// FindResponsesByWriting returns responses for a writing, oldest first.
func (s *WritingStore) FindResponsesByWriting(_ context.Context, writingID string) ([]domain.WritingResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.WritingResponse{}, s.responses[writingID]...), nil
}

// ListWritings returns writings for a user, oldest first.
func (s *WritingStore) ListWritings(_ context.Context, userID string) ([]domain.Writing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Writing{}
	for _, id := range s.order {
		w := s.writings[id]
		if userID == "" || w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}
