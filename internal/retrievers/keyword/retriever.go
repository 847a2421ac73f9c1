// Package keyword provides the default Retriever: a linear scan over the
// document store scoring each document by query-token containment.
package keyword

import (
	"context"
	"sort"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

// Ensure Retriever implements the interface.
var _ driven.Retriever = (*Retriever)(nil)

// Retriever scores every stored document against the query tokens.
type Retriever struct {
	docs driven.DocumentStore
}

// New creates a keyword retriever over the document store.
func New(docs driven.DocumentStore) *Retriever {
	return &Retriever{docs: docs}
}

// Search returns up to opts.Limit references, best first.
// Documents are read in insertion order, so equal scores keep that order.
func (r *Retriever) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.DocumentReference, error) {
	tokens := domain.Tokenize(query)
	if len(tokens) == 0 {
		return []domain.DocumentReference{}, nil
	}

	var (
		docs []domain.Document
		err  error
	)
	if opts.Category != nil {
		docs, err = r.docs.FindByCategory(ctx, *opts.Category)
	} else {
		docs, err = r.docs.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	type scored struct {
		doc   *domain.Document
		score float64
	}
	candidates := make([]scored, 0, len(docs))
	for i := range docs {
		score := domain.ContainmentScore(tokens, docs[i].Content)
		if score <= 0 {
			continue
		}
		candidates = append(candidates, scored{doc: &docs[i], score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit := opts.EffectiveLimit(); len(candidates) > limit {
		candidates = candidates[:limit]
	}

	refs := make([]domain.DocumentReference, 0, len(candidates))
	for _, c := range candidates {
		refs = append(refs, domain.DocumentReference{
			DocumentID:       c.doc.ID,
			Title:            c.doc.Title,
			RelevantSections: domain.RelevantSections(tokens, c.doc.Content),
			RelevanceScore:   c.score,
		})
	}
	return refs, nil
}
