// Package sentences provides the processor that splits document content
// into sentences.
package sentences

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/textutil"
)

// Processor splits document content into sentences.
// It implements the PostProcessor interface.
type Processor struct{}

// New creates a new sentence splitter.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "sentences"
}

// Process splits the document content into sentences.
// Input sentences are ignored; this processor creates new ones from content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Sentence) ([]domain.Sentence, error) {
	if doc.Content == "" {
		return nil, nil
	}

	texts := textutil.SplitSentences(doc.Content)
	out := make([]domain.Sentence, len(texts))
	for i, t := range texts {
		out[i] = domain.Sentence{Position: i, Text: t}
	}
	return out, nil
}
