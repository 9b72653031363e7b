package driving

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// TranslationService translates persisted summaries.
type TranslationService interface {
	// TranslateSummary translates the latest summary of a type and persists
	// the translation. An empty provider uses the configured default.
	TranslateSummary(ctx context.Context, documentID string, summaryType domain.SummaryType,
		language string, provider domain.TranslationProvider) (*domain.TranslationRecord, error)

	// Get returns a persisted translation.
	Get(ctx context.Context, documentID string, summaryType domain.SummaryType, language string) (*domain.TranslationRecord, error)

	// Languages returns the supported target languages.
	Languages() []domain.Language
}
