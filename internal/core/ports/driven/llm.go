package driven

import "context"

// LLMService is the language model behind answering, drafting and review.
// When none is configured those operations fail with
// domain.ErrLLMUnavailable while search keeps working.
type LLMService interface {
	// Generate returns the completion for prompt. Transport failures and
	// provider outages wrap domain.ErrLLMUnavailable; throttling wraps
	// domain.ErrRateLimited.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	ModelName() string

	// Ping checks reachability and credentials without running inference.
	Ping(ctx context.Context) error
	Close() error
}

// GenerateOptions tunes one Generate call. The zero value asks for
// deterministic output with the provider's default length.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
	StopWords   []string

	// System carries the role instructions, e.g. the drafting persona.
	System string
}
