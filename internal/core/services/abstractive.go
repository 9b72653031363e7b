package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driven"
	"github.com/custodia-labs/digest/internal/logger"
	"github.com/custodia-labs/digest/internal/textutil"
)

// chunkText groups sentences into chunks of at most maxWords words.
// A sentence longer than the budget becomes a chunk of its own.
func chunkText(text string, maxWords int) []string {
	var (
		chunks  []string
		current []string
		words   int
	)
	for _, s := range textutil.SplitSentences(text) {
		n := textutil.WordCount(s)
		if words > 0 && words+n > maxWords {
			chunks = append(chunks, strings.Join(current, " "))
			current, words = nil, 0
		}
		current = append(current, s)
		words += n
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// abstract summarises text chunk by chunk and joins the outputs in input
// order. Chunks of at most minChunkChars characters are skipped. The text
// is passed explicitly; no artifact is read or written here.
func (o *SummaryOrchestrator) abstract(ctx context.Context, text string, opts domain.AbstractiveOptions) (string, error) {
	var chunks []string
	for _, c := range chunkText(text, o.chunkWords) {
		if utf8.RuneCountInString(strings.TrimSpace(c)) <= o.minChunkChars {
			logger.Debug("skipping %d-character chunk", utf8.RuneCountInString(c))
			continue
		}
		chunks = append(chunks, c)
	}
	if len(chunks) == 0 {
		return "", nil
	}

	sopts := driven.SummariseOptions{MaxLength: opts.MaxLength, MinLength: opts.MinLength, Model: opts.Model}
	outputs := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.chunkWorkers)
	for i, c := range chunks {
		g.Go(func() error {
			callCtx, cancel := o.callContext(gctx)
			defer cancel()

			out, err := o.summariser.Summarise(callCtx, c, sopts)
			if err != nil {
				return classifyExternal(fmt.Errorf("summarise chunk %d/%d: %w", i+1, len(chunks), err))
			}
			outputs[i] = strings.TrimSpace(out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	logger.Debug("summarised %d chunks with %s", len(chunks), o.modelName(opts.Model))
	return strings.Join(outputs, " "), nil
}

// callContext applies the configured external-call timeout.
func (o *SummaryOrchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout > 0 {
		return context.WithTimeout(ctx, o.timeout)
	}
	return context.WithCancel(ctx)
}

// classifyExternal tags a collaborator failure as a timeout or an
// unavailable dependency unless it already carries a domain kind.
func classifyExternal(err error) error {
	switch {
	case errors.Is(err, domain.ErrTimeout),
		errors.Is(err, domain.ErrDependencyUnavailable),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrDependencyUnavailable, err)
	}
}
