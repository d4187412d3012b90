package driven

import (
	"context"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
// The index coordinator obtains one instance at start-up and keeps it
// for the life of the process.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - The offline hash embedder used by default and in tests
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// The result has one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	// Zero means the size is only known after the first request.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// AIConfigValidator checks that an embedding configuration can reach its
// provider before it is relied on.
type AIConfigValidator interface {
	// ValidateEmbedding creates a service from config, pings it and checks
	// the size of a test embedding.
	ValidateEmbedding(config *domain.EmbeddingSettings) error
}
