package driven

import "context"

// EmbeddingService turns chunks of legal text into vectors for the vector
// retriever. It is optional: without one, retrieval runs in keyword mode.
// Transport failures wrap domain.ErrEmbeddingUnavailable and throttling
// wraps domain.ErrRateLimited.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the length of every returned vector.
	Dimensions() int
	ModelName() string

	// Ping checks reachability and credentials without embedding anything.
	Ping(ctx context.Context) error
	Close() error
}
