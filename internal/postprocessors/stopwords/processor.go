// Package stopwords removes English stopwords from each sentence.
package stopwords

import (
	"context"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/textutil"
)

// Processor rewrites sentences without their stopwords.
type Processor struct{}

// New creates a stopword remover.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "stopwords"
}

// Process removes stopwords. Sentences left empty are dropped.
func (p *Processor) Process(_ context.Context, _ *domain.Document, sentences []domain.Sentence) ([]domain.Sentence, error) {
	out := make([]domain.Sentence, 0, len(sentences))
	for _, s := range sentences {
		text := textutil.RemoveStopwords(s.Text)
		if text == "" {
			continue
		}
		out = append(out, domain.Sentence{Position: s.Position, Text: text})
	}
	return out, nil
}
