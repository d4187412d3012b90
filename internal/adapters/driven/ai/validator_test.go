package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

// fixedEmbedder returns the same vector for every text.
type fixedEmbedder struct {
	vec      []float32
	reported int
	err      error
	closed   bool
}

var _ driven.EmbeddingService = (*fixedEmbedder)(nil)

func (e *fixedEmbedder) Embed(context.Context, string) ([]float32, error) {
	return e.vec, e.err
}

func (e *fixedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *fixedEmbedder) Dimensions() int { return e.reported }
func (e *fixedEmbedder) ModelName() string { return "fixed" }
func (e *fixedEmbedder) Ping(context.Context) error { return nil }

func (e *fixedEmbedder) Close() error {
	e.closed = true
	return nil
}

func validatorWith(svc driven.EmbeddingService) *ConfigValidator {
	return &ConfigValidator{create: func(*domain.EmbeddingSettings) (driven.EmbeddingService, error) {
		return svc, nil
	}}
}

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
	require.NotNil(t, validator.create)
}

func TestConfigValidator_ValidateEmbedding_NilConfig(t *testing.T) {
	err := NewConfigValidator().ValidateEmbedding(nil)

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestConfigValidator_ValidateEmbedding_Hash(t *testing.T) {
	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
		Provider:   domain.AIProviderHash,
		Dimensions: 32,
	})

	assert.NoError(t, err)
}

func TestConfigValidator_ValidateEmbedding_Ollama(t *testing.T) {
	t.Run("reachable with matching size", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/tags":
				w.WriteHeader(http.StatusOK)
			case "/api/embed":
				_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2,0.3]]}`))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
			Provider:   domain.AIProviderOllama,
			BaseURL:    server.URL,
			Model:      "nomic-embed-text",
			Dimensions: 3,
		})
		assert.NoError(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}))
		defer server.Close()

		err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  server.URL,
		})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.Contains(t, err.Error(), "memo settings embedding")
	})
}

func TestConfigValidator_ValidateEmbedding_DimensionMismatch(t *testing.T) {
	svc := &fixedEmbedder{vec: make([]float32, 768)}

	err := validatorWith(svc).ValidateEmbedding(&domain.EmbeddingSettings{
		Provider:   domain.AIProviderOllama,
		Dimensions: 1024,
	})

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "returns 768 dimensions, settings say 1024")
	assert.True(t, svc.closed)
}

func TestConfigValidator_ValidateEmbedding_ModelDefaultSize(t *testing.T) {
	svc := &fixedEmbedder{vec: make([]float32, 768), reported: 768}

	err := validatorWith(svc).ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama})

	assert.NoError(t, err)
}

func TestConfigValidator_ValidateEmbedding_ReportedSizeDisagrees(t *testing.T) {
	svc := &fixedEmbedder{vec: make([]float32, 4), reported: 8}

	err := validatorWith(svc).ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI})

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestConfigValidator_ValidateEmbedding_EmptyVector(t *testing.T) {
	err := validatorWith(&fixedEmbedder{}).ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestConfigValidator_ValidateEmbedding_EmbedFails(t *testing.T) {
	svc := &fixedEmbedder{err: errors.New("model not found")}

	err := validatorWith(svc).ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "model not found")
	assert.True(t, svc.closed)
}
