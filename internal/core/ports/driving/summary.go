package driving

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// SummaryService produces and retrieves summaries of cleaned documents.
// Every operation reads the cleaned-sentences artifact and writes exactly
// one summary artifact after the full result is computed.
type SummaryService interface {
	// Extractive selects the highest-ranked sentences.
	// Fails with ErrInvalidInput for an empty corpus or a ratio outside (0, 1].
	Extractive(ctx context.Context, documentID string, opts domain.ExtractiveOptions) (*domain.SummaryRecord, error)

	// Abstractive rewrites the cleaned text through the external summariser.
	Abstractive(ctx context.Context, documentID string, opts domain.AbstractiveOptions) (*domain.SummaryRecord, error)

	// Hybrid rewrites an extractive summary through the external summariser.
	Hybrid(ctx context.Context, documentID string, opts domain.HybridOptions) (*domain.SummaryRecord, error)

	// FormattedHybrid builds a structured summary with title, objective,
	// key points and section summaries.
	FormattedHybrid(ctx context.Context, documentID string, opts domain.HybridOptions) (*domain.SummaryRecord, error)

	// Get returns the latest persisted summary of a type.
	Get(ctx context.Context, documentID string, summaryType domain.SummaryType) (*domain.SummaryRecord, error)
}
