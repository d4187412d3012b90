// Package ratelimit wraps an embedding service with a token-bucket limiter
// so bulk reconciles stay under a hosted provider's request quota.
package ratelimit

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService limits calls to an inner service.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter

	// batchSize caps how many texts share one limiter token.
	batchSize int
}

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64

	// BurstSize is the maximum burst size (default: 1).
	BurstSize int

	// BatchSize is how many texts one request may carry (default: 64).
	BatchSize int
}

// Wrap returns inner limited by cfg. A non-positive rate returns inner unchanged.
func Wrap(inner driven.EmbeddingService, cfg Config) driven.EmbeddingService {
	if cfg.RequestsPerSecond <= 0 {
		return inner
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	return &EmbeddingService{
		inner:     inner,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		batchSize: cfg.BatchSize,
	}
}

// Embed waits for a token then embeds text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return s.inner.Embed(ctx, text)
}

// EmbedBatch splits texts into chunks of BatchSize, waiting for a token
// before each chunk.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	chunks := int(math.Ceil(float64(len(texts)) / float64(s.batchSize)))
	for c := 0; c < chunks; c++ {
		start := c * s.batchSize
		end := min(start+s.batchSize, len(texts))

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		vecs, err := s.inner.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// Dimensions returns the inner service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the inner service's model name.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping is not rate limited.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the inner service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }
