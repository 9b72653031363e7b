package driven

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// PostProcessor is one cleaning step over a document's sentences.
// Processors are chained: splitting, filtering, stopword removal.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes the document and the sentences produced so far.
	// The first processor receives nil and creates sentences from content.
	Process(ctx context.Context, doc *domain.Document, sentences []domain.Sentence) ([]domain.Sentence, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Sentence, error)
}
