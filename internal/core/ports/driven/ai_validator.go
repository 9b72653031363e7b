package driven

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// AIConfigValidator checks that configured LLM settings reach a live
// provider.
type AIConfigValidator interface {
	// ValidateLLM pings the provider described by config. Settings that
	// are incomplete, or absent, validate as nil.
	ValidateLLM(ctx context.Context, config *domain.LLMSettings) error
}
