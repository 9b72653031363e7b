// Package postprocessors turns an extracted document into the cleaned
// sentence corpus: a splitter creates sentences, later steps filter or
// rewrite them.
package postprocessors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/logger"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs processors in order, each receiving the previous output.
type Pipeline struct {
	steps []driven.PostProcessor
}

// Step records what one processor did during Run.
type Step struct {
	Name     string
	In, Out  int
	Duration time.Duration
}

// NewPipeline returns a pipeline of the given processors, run in order.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{steps: processors}
}

// BuildPipeline resolves cfg's processor names through r. A name may
// appear only once.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	seen := make(map[string]bool, len(cfg.Processors))
	p := NewPipeline()
	for _, name := range cfg.Processors {
		if seen[name] {
			return nil, fmt.Errorf("%w: processor %s listed twice", domain.ErrInvalidInput, name)
		}
		seen[name] = true

		proc, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, err
		}
		p.Add(proc)
	}
	return p, nil
}

// Process returns the sentences left after every step.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Sentence, error) {
	sentences, _, err := p.Run(ctx, doc)
	return sentences, err
}

// Run is Process that also reports per-step sentence counts. The first
// step is handed nil and is expected to split doc.Content.
func (p *Pipeline) Run(ctx context.Context, doc *domain.Document) ([]domain.Sentence, []Step, error) {
	if doc == nil {
		return nil, nil, errors.New("document is nil")
	}

	var (
		sentences []domain.Sentence
		trace     = make([]Step, 0, len(p.steps))
	)
	for _, proc := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, trace, err
		}

		in, start := len(sentences), time.Now()
		out, err := proc.Process(ctx, doc, sentences)
		if err != nil {
			return nil, trace, fmt.Errorf("processor %s: %w", proc.Name(), err)
		}
		sentences = out

		step := Step{Name: proc.Name(), In: in, Out: len(out), Duration: time.Since(start)}
		trace = append(trace, step)
		logger.Fields("cleaning step", "document", doc.ID, "step", step.Name, "in", step.In, "out", step.Out)
	}
	return sentences, trace, nil
}

// Add appends a processor.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.steps = append(p.steps, processor)
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// Names returns the step names in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}
