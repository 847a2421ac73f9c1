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

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService exposes the configured retriever to front-ends.
type SearchService struct {
	retriever    driven.Retriever
	defaultLimit int
}

// NewSearchService creates a new search service.
// defaultLimit applies when a request carries no limit.
func NewSearchService(retriever driven.Retriever, defaultLimit int) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultSearchLimit
	}
	return &SearchService{retriever: retriever, defaultLimit: defaultLimit}
}

// Search returns documents relevant to the query.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.DocumentReference, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.DocumentReference{}, nil
	}

	if opts.Limit <= 0 {
		opts.Limit = s.defaultLimit
	}
	if opts.Category != nil && !opts.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, *opts.Category)
	}

	refs, err := s.retriever.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	logger.Debug("Returned %d results", len(refs))
	return refs, nil
}
