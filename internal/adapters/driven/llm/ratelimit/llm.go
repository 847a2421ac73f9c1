// Package ratelimit throttles calls to an LLMService with a token bucket and
// backs off when the provider reports a rate limit.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// Defaults applied by Wrap.
const (
	DefaultBurst      = 1
	DefaultBackoff    = 20 * time.Second
	DefaultMaxRetries = 2
)

// Option configures an LLMService.
type Option func(*LLMService)

// WithBurst sets the token bucket size.
func WithBurst(burst int) Option {
	return func(s *LLMService) {
		if burst > 0 {
			s.limiter.SetBurst(burst)
		}
	}
}

// WithBackoff sets how long to wait after a rate-limited response.
func WithBackoff(d time.Duration) Option {
	return func(s *LLMService) {
		if d >= 0 {
			s.backoff = d
		}
	}
}

// WithMaxRetries sets how many times a rate-limited call is retried.
func WithMaxRetries(n int) Option {
	return func(s *LLMService) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// LLMService wraps another LLMService.
type LLMService struct {
	next       driven.LLMService
	limiter    *rate.Limiter
	backoff    time.Duration
	maxRetries int

	mu      sync.Mutex
	retryAt time.Time
}

// Wrap returns next throttled to requestsPerSecond. A nil next or a
// non-positive rate returns next unchanged.
func Wrap(next driven.LLMService, requestsPerSecond float64, opts ...Option) driven.LLMService {
	if next == nil || requestsPerSecond <= 0 {
		return next
	}
	s := &LLMService{
		next:       next,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), DefaultBurst),
		backoff:    DefaultBackoff,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate waits for a token, then delegates. Rate-limited responses are
// retried after the backoff period.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := s.wait(ctx); err != nil {
			return "", err
		}
		out, err := s.next.Generate(ctx, prompt, opts)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, domain.ErrRateLimited) {
			return "", err
		}
		lastErr = err
		s.recordRateLimit()
	}
	return "", lastErr
}

func (s *LLMService) wait(ctx context.Context) error {
	s.mu.Lock()
	retryAt := s.retryAt
	s.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return s.limiter.Wait(ctx)
}

func (s *LLMService) recordRateLimit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retryAt = time.Now().Add(s.backoff)
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string { return s.next.ModelName() }

// Ping is not throttled.
func (s *LLMService) Ping(ctx context.Context) error { return s.next.Ping(ctx) }

// Close closes the wrapped service.
func (s *LLMService) Close() error { return s.next.Close() }
