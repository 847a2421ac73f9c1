// Package cache wraps an EmbeddingService with an expiring in-memory LRU,
// so repeated chunks and queries are embedded once.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

// Defaults used by the CLI bootstrap.
const (
	DefaultSize = 4096
	DefaultTTL  = 2 * time.Hour
)

// Ensure Embedder implements the interface.
var _ driven.EmbeddingService = (*Embedder)(nil)

// Embedder caches vectors by model and text.
type Embedder struct {
	next  driven.EmbeddingService
	cache *expirable.LRU[string, []float32]
}

// Wrap returns next wrapped in a cache. A nil service, or a non-positive
// size or ttl, returns next unchanged.
func Wrap(next driven.EmbeddingService, size int, ttl time.Duration) driven.EmbeddingService {
	if next == nil || size <= 0 || ttl <= 0 {
		return next
	}
	return &Embedder{
		next:  next,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

// Embed returns a cached vector or computes and stores one.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := e.key(text)
	if cached, ok := e.cache.Get(key); ok {
		logger.Debug("embedding cache hit")
		return clone(cached), nil
	}
	vec, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	e.cache.Add(key, clone(vec))
	return vec, nil
}

// EmbedBatch embeds only the texts missing from the cache, in one call.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var (
		missing []string
		slots   []int
	)
	for i, text := range texts {
		if cached, ok := e.cache.Get(e.key(text)); ok {
			out[i] = clone(cached)
			continue
		}
		missing = append(missing, text)
		slots = append(slots, i)
	}

	logger.Debug("embedding cache: %d hits, %d misses", len(texts)-len(missing), len(missing))
	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := e.next.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range vecs {
		if j >= len(slots) {
			break
		}
		out[slots[j]] = vec
		e.cache.Add(e.key(missing[j]), clone(vec))
	}
	return out, nil
}

// Len reports how many vectors are cached.
func (e *Embedder) Len() int { return e.cache.Len() }

func (e *Embedder) Dimensions() int                { return e.next.Dimensions() }
func (e *Embedder) ModelName() string              { return e.next.ModelName() }
func (e *Embedder) Ping(ctx context.Context) error { return e.next.Ping(ctx) }

// Close purges the cache and closes the wrapped service.
func (e *Embedder) Close() error {
	e.cache.Purge()
	return e.next.Close()
}

func (e *Embedder) key(text string) string {
	sum := sha256.Sum256([]byte(e.next.ModelName() + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func clone(values []float32) []float32 {
	if values == nil {
		return nil
	}
	c := make([]float32, len(values))
	copy(c, values)
	return c
}
