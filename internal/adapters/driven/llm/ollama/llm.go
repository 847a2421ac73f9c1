// Package ollama answers prompts with a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/lexa-cli/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL  = "http://localhost:11434"
	DefaultLLMModel = "llama3.2"

	// DefaultLLMTimeout is generous because local models on CPU are slow to
	// produce a full draft.
	DefaultLLMTimeout = 300 * time.Second
)

// LLMConfig configures the service. Zero values take the defaults above.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService generates text with /api/generate, without streaming.
type LLMService struct {
	api   *httpjson.Client
	model string
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// generateResponse may carry an error even with a 200 status, for example
// when the model runs out of memory mid-generation.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		api:   httpjson.New("ollama", cfg.BaseURL, cfg.Timeout, domain.ErrLLMUnavailable),
		model: cfg.Model,
	}
}

func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	temperature := opts.Temperature
	req := generateRequest{
		Model:  s.model,
		Prompt: prompt,
		System: opts.System,
		Options: generateOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: &temperature,
			Stop:        opts.StopWords,
		},
	}

	var resp generateResponse
	if err := s.api.Post(ctx, "/api/generate", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", resp.Error)
	}
	return resp.Response, nil
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists local models, which needs no inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx, "/api/tags")
}

func (s *LLMService) Close() error { return nil }
