package driving

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// CleaningService turns extracted text into the sentence corpus.
type CleaningService interface {
	// Clean reads the extraction artifact, cleans it and persists the
	// cleaned-sentences artifact.
	Clean(ctx context.Context, documentID string, opts domain.CleaningOptions) (*domain.CleanedText, error)

	// Get returns the persisted cleaned text.
	Get(ctx context.Context, documentID string) (*domain.CleanedText, error)

	// Preview cleans without persisting and returns samples of both texts.
	Preview(ctx context.Context, documentID string, opts domain.CleaningOptions, sampleSize int) (*domain.CleaningPreview, error)
}
