// Package hash provides an offline embedding service based on feature hashing.
//
// Each text is split into lower-cased word tokens and character trigrams.
// Every feature is hashed with MD5 into one of Dimensions buckets with a sign
// taken from the digest, and the bucket counts form the vector. Texts that
// share words or character runs land close together, which is enough for
// keyword-like recall without a model server. Results are deterministic
// across processes and platforms.
package hash

import (
	"context"
	"crypto/md5" //nolint:gosec // bucket selection, not security
	"encoding/binary"
	"strings"
	"unicode"

	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Defaults.
const (
	DefaultDimensions = 256
	ModelName         = "md5-hash"
)

// EmbeddingService is a deterministic feature-hashing embedder.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService returns an embedder producing vectors of the given size.
// Non-positive sizes select DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed hashes text into a vector. Empty text yields the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float32, s.dimensions)
	for _, f := range features(text) {
		sum := md5.Sum([]byte(f)) //nolint:gosec // see import
		bucket := binary.LittleEndian.Uint32(sum[:4]) % uint32(s.dimensions)
		if sum[4]&1 == 0 {
			vec[bucket]++
		} else {
			vec[bucket]--
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns "md5-hash".
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// features returns word tokens prefixed "w:" and character trigrams prefixed
// "c:". Trigrams give scripts without spaces (Japanese, Chinese) something
// to match on.
func features(text string) []string {
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	out := make([]string, 0, len(words)*2)
	for _, w := range words {
		out = append(out, "w:"+w)
		runes := []rune(w)
		if len(runes) < 3 {
			out = append(out, "c:"+w)
			continue
		}
		for i := 0; i+3 <= len(runes); i++ {
			out = append(out, "c:"+string(runes[i:i+3]))
		}
	}
	return out
}
