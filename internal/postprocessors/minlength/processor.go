// Package minlength drops sentences that are too short to carry content,
// such as page numbers and stray headings.
package minlength

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// DefaultMinChars is the shortest sentence kept by default.
const DefaultMinChars = 10

// Processor filters sentences by trimmed character count.
type Processor struct {
	minChars int
}

// Option configures the processor.
type Option func(*Processor)

// WithMinChars sets the shortest sentence kept. Zero keeps everything.
func WithMinChars(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minChars = n
		}
	}
}

// New creates a length filter.
func New(opts ...Option) *Processor {
	p := &Processor{minChars: DefaultMinChars}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "min_length"
}

// Process keeps sentences of at least minChars characters. Positions are
// left as assigned by the splitter.
func (p *Processor) Process(_ context.Context, _ *domain.Document, sentences []domain.Sentence) ([]domain.Sentence, error) {
	out := sentences[:0:0]
	for _, s := range sentences {
		if utf8.RuneCountInString(strings.TrimSpace(s.Text)) >= p.minChars {
			out = append(out, s)
		}
	}
	return out, nil
}
