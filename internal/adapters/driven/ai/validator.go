package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/memo-cli/internal/core/domain"
	"github.com/custodia-labs/memo-cli/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// checkText is embedded once when validating a provider.
const checkText = "memo settings check"

// ConfigValidator checks that a provider is reachable and that it returns
// vectors of the size the settings promise.
type ConfigValidator struct {
	create func(*domain.EmbeddingSettings) (driven.EmbeddingService, error)
}

// NewConfigValidator returns a validator using the provider factory.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{create: CreateAndValidateEmbeddingService}
}

// ValidateEmbedding pings the provider, embeds a short text and compares
// the vector size with config.Dimensions when that is set.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	svc, err := v.create(config)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	vec, err := svc.Embed(ctx, checkText)
	if err != nil {
		return fmt.Errorf("%w: test embedding failed (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vec) == 0 {
		return fmt.Errorf("%w: %s returned an empty vector", domain.ErrEmbeddingUnavailable, svc.ModelName())
	}
	if config.Dimensions > 0 && len(vec) != config.Dimensions {
		return fmt.Errorf("%w: %s returns %d dimensions, settings say %d",
			domain.ErrDimensionMismatch, svc.ModelName(), len(vec), config.Dimensions)
	}
	if reported := svc.Dimensions(); reported > 0 && reported != len(vec) {
		return fmt.Errorf("%w: %s reports %d dimensions but returned %d",
			domain.ErrDimensionMismatch, svc.ModelName(), reported, len(vec))
	}
	return nil
}
