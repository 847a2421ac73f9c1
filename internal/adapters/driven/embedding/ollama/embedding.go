// Package ollama embeds text with a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driven/embedding"
	"github.com/custodia-labs/lexa-cli/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 768

	// DefaultMaxInputRunes fits the 2048 token context Ollama gives
	// embedding models unless num_ctx is raised.
	DefaultMaxInputRunes = 6000

	batchConcurrency = 4
)

// Config configures the service. Zero values take the defaults above.
type Config struct {
	BaseURL       string
	Model         string
	Timeout       time.Duration
	Dimensions    int
	MaxInputRunes int
}

// EmbeddingService embeds one text per request to /api/embeddings.
type EmbeddingService struct {
	api        *httpjson.Client
	model      string
	dimensions int
	maxRunes   int
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.MaxInputRunes == 0 {
		cfg.MaxInputRunes = DefaultMaxInputRunes
	}
	return &EmbeddingService{
		api:        httpjson.New("ollama", cfg.BaseURL, cfg.Timeout, domain.ErrEmbeddingUnavailable),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		maxRunes:   cfg.MaxInputRunes,
	}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embedRequest{Model: s.model, Prompt: embedding.Prepare(text, s.maxRunes)}

	var resp embedResponse
	if err := s.api.Post(ctx, "/api/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama: empty embedding returned for model %s", s.model)
	}
	return embedding.Float32s(resp.Embedding), nil
}

// EmbedBatch embeds texts concurrently with a small bound since Ollama has
// no batch endpoint for this API. The result keeps input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			v, err := s.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("embed text %d: %w", i, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (s *EmbeddingService) Dimensions() int   { return s.dimensions }
func (s *EmbeddingService) ModelName() string { return s.model }

func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx, "/api/tags")
}

func (s *EmbeddingService) Close() error { return nil }
