// Package vector provides an embedding-based Retriever. It chunks every
// candidate document, embeds query and chunks, and scores each document by
// its best chunk. It is a brute-force scan, not an index.
package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/logger"
	"github.com/custodia-labs/lexa-cli/internal/postprocessors/chunker"
)

// Ensure Retriever implements the interface.
var _ driven.Retriever = (*Retriever)(nil)

// Retriever ranks documents by cosine similarity of embeddings.
type Retriever struct {
	docs     driven.DocumentStore
	embedder driven.EmbeddingService
	chunker  *chunker.Processor
}

// New creates a vector retriever. Pass a cached embedder to avoid
// re-embedding unchanged chunks on every query.
func New(docs driven.DocumentStore, embedder driven.EmbeddingService, c *chunker.Processor) *Retriever {
	if c == nil {
		c = chunker.New()
	}
	return &Retriever{docs: docs, embedder: embedder, chunker: c}
}

type scoredChunk struct {
	content string
	score   float64
}

type candidate struct {
	doc    *domain.Document
	score  float64
	chunks []scoredChunk
}

// Search returns up to opts.Limit references, best first. Ties keep store
// insertion order and non-positive similarities are dropped.
func (r *Retriever) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.DocumentReference, error) {
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if len(domain.Tokenize(query)) == 0 {
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

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %w", domain.ErrEmbeddingUnavailable, err)
	}

	candidates := make([]candidate, 0, len(docs))
	for i := range docs {
		chunks := r.chunker.Split(&docs[i])
		if len(chunks) == 0 {
			continue
		}
		texts := make([]string, len(chunks))
		for j, c := range chunks {
			texts[j] = c.Content
		}

		vecs, err := r.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding %s: %w", domain.ErrEmbeddingUnavailable, docs[i].ID, err)
		}

		c := candidate{doc: &docs[i]}
		for j, vec := range vecs {
			if j >= len(texts) {
				break
			}
			s := Cosine(queryVec, vec)
			if s <= 0 {
				continue
			}
			c.chunks = append(c.chunks, scoredChunk{content: texts[j], score: s})
			c.score = max(c.score, s)
		}
		if c.score > 0 {
			candidates = append(candidates, c)
		}
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
			RelevantSections: topChunks(c.chunks, domain.MaxRelevantSections),
			RelevanceScore:   c.score,
		})
	}

	logger.Debug("vector search over %d documents returned %d", len(docs), len(refs))
	return refs, nil
}

func topChunks(chunks []scoredChunk, n int) []string {
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].score > chunks[j].score })
	out := make([]string, 0, min(n, len(chunks)))
	for i := 0; i < len(chunks) && i < n; i++ {
		out = append(out, chunks[i].content)
	}
	return out
}

// Cosine returns the cosine similarity of a and b clamped to [0, 1].
// Mismatched lengths or zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(0, math.Min(1, s))
}
